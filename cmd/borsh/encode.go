package main

import (
	"github.com/Neumenon/borsh/borsh"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	io                 ioFlags
	schema             string
	noHeader           bool
	format             string
	allowUnknownFields bool
}

func newEncodeCmd(a *app) *cobra.Command {
	var o encodeOptions
	cmd := &cobra.Command{
		Use:   "encode [input [output]]",
		Short: "Convert JSON or YAML to Borsh",
		Long: `Convert JSON or YAML to Borsh.

With --schema the value is encoded against the schema and, unless
--no-schema-header is set, the encoded schema is written in front of it.
Without a schema the encoding is inferred from the value's shape; such
output cannot be decoded back and nulls are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.io.resolve(args); err != nil {
				return err
			}
			return a.encode(cmd, &o)
		},
	}
	o.io.register(cmd)
	cmd.Flags().StringVarP(&o.schema, "schema", "s", "", "schema file (binary, .json or .yaml)")
	cmd.Flags().BoolVar(&o.noHeader, "no-schema-header", false, "do not prefix the output with the schema")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "input format: json or yaml (default from extension or config)")
	cmd.Flags().BoolVar(&o.allowUnknownFields, "allow-unknown-fields", false, "ignore object members the schema does not declare")
	return cmd
}

func (a *app) encode(cmd *cobra.Command, o *encodeOptions) error {
	data, err := o.io.read(cmd)
	if err != nil {
		return err
	}
	v, err := parseText(data, textFormat(o.format, o.io.input, a.cfg.Encode.Format))
	if err != nil {
		return err
	}

	if o.schema == "" {
		out, err := borsh.EncodeSchemaless(v)
		if err != nil {
			return err
		}
		a.log.WithField("bytes", len(out)).Debug("encoded without schema")
		return o.io.write(cmd, out)
	}

	s, err := loadSchema(o.schema)
	if err != nil {
		return err
	}
	opts := borsh.EncodeOptions{AllowUnknownFields: o.allowUnknownFields || a.cfg.Encode.AllowUnknownFields}
	payload, err := borsh.EncodeWithOptions(v, s, opts)
	if err != nil {
		return err
	}
	header, err := borsh.EncodeSchema(s)
	if err != nil {
		return err
	}
	out := payload
	if !o.noHeader {
		out = borsh.Wrap(header, payload)
	}

	if a.log.IsLevelEnabled(logrus.DebugLevel) {
		a.log.WithFields(logrus.Fields{
			"root":    s.Root,
			"digest":  digest.FromBytes(header),
			"payload": len(payload),
			"bytes":   len(out),
		}).Debug("encoded with schema")
	}
	return o.io.write(cmd, out)
}
