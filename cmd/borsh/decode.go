package main

import (
	"github.com/Neumenon/borsh/borsh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type decodeOptions struct {
	io            ioFlags
	schema        string
	allowTrailing bool
	format        string
	indent        string
}

func newDecodeCmd(a *app) *cobra.Command {
	var o decodeOptions
	cmd := &cobra.Command{
		Use:   "decode [input [output]]",
		Short: "Convert Borsh to JSON or YAML",
		Long: `Convert Borsh to JSON or YAML.

The input must start with its schema header unless --schema names the
schema, in which case the input is the bare payload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.io.resolve(args); err != nil {
				return err
			}
			return a.decode(cmd, &o)
		},
	}
	o.io.register(cmd)
	cmd.Flags().StringVarP(&o.schema, "schema", "s", "", "schema file for header-less input (binary, .json or .yaml)")
	cmd.Flags().BoolVar(&o.allowTrailing, "allow-trailing", false, "ignore bytes after the root value")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json or yaml (default from extension or config)")
	cmd.Flags().StringVar(&o.indent, "indent", "", "JSON indent string (default from config)")
	return cmd
}

func (a *app) decode(cmd *cobra.Command, o *decodeOptions) error {
	data, err := o.io.read(cmd)
	if err != nil {
		return err
	}
	opts := borsh.DecodeOptions{AllowTrailingBytes: o.allowTrailing || a.cfg.Decode.AllowTrailingBytes}

	var (
		v *borsh.Value
		s *borsh.Schema
	)
	if o.schema != "" {
		if s, err = loadSchema(o.schema); err != nil {
			return err
		}
		v, err = borsh.DecodeWithOptions(data, s, opts)
	} else {
		v, s, err = borsh.DecodeWithHeader(data, opts)
	}
	if err != nil {
		return err
	}

	indent := o.indent
	if !cmd.Flags().Changed("indent") {
		indent = a.cfg.Decode.Indent
	}
	out, err := renderText(v, textFormat(o.format, o.io.output, a.cfg.Decode.Format), indent)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{"root": s.Root, "bytes": len(data)}).Debug("decoded")
	return o.io.write(cmd, out)
}
