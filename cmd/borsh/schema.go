package main

import (
	"fmt"

	"github.com/Neumenon/borsh/borsh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Compile, inspect and shrink schemas",
	}
	cmd.AddCommand(
		newSchemaCompileCmd(a),
		newSchemaShowCmd(a),
		newSchemaCompactCmd(a),
		newSchemaDigestCmd(a),
	)
	return cmd
}

// readBinarySchema parses the schema at the start of the input, which may
// be a bare schema or a whole blob.
func readBinarySchema(cmd *cobra.Command, o *ioFlags) (*borsh.Schema, error) {
	data, err := o.read(cmd)
	if err != nil {
		return nil, err
	}
	s, _, _, err := borsh.Split(data)
	return s, err
}

func newSchemaCompileCmd(a *app) *cobra.Command {
	var (
		o      ioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "compile [input [output]]",
		Short: "Compile a JSON or YAML schema to its binary form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			data, err := o.read(cmd)
			if err != nil {
				return err
			}
			var s *borsh.Schema
			switch f := textFormat(format, o.input, "json"); f {
			case "json":
				s, err = borsh.SchemaFromJSON(data)
			case "yaml":
				s, err = borsh.SchemaFromYAML(data)
			default:
				err = fmt.Errorf("unsupported format %q", f)
			}
			if err != nil {
				return err
			}
			out, err := borsh.EncodeSchema(s)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"root": s.Root, "declarations": len(s.Declarations), "bytes": len(out)}).Debug("compiled schema")
			return o.write(cmd, out)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or yaml (default from extension, else json)")
	return cmd
}

func newSchemaShowCmd(a *app) *cobra.Command {
	var (
		o      ioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "show [input [output]]",
		Short: "Print a binary schema or a blob's header in text form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			s, err := readBinarySchema(cmd, &o)
			if err != nil {
				return err
			}
			out, err := renderText(s.ToValue(), textFormat(format, o.output, "yaml"), "  ")
			if err != nil {
				return err
			}
			return o.write(cmd, out)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default yaml)")
	return cmd
}

func newSchemaCompactCmd(a *app) *cobra.Command {
	var o ioFlags
	cmd := &cobra.Command{
		Use:   "compact [input [output]]",
		Short: "Rename declarations to the shortest names and drop unreachable ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			s, err := readBinarySchema(cmd, &o)
			if err != nil {
				return err
			}
			c, err := borsh.Compact(s)
			if err != nil {
				return err
			}
			out, err := borsh.EncodeSchema(c)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"before": len(s.Declarations), "after": len(c.Declarations)}).Debug("compacted schema")
			return o.write(cmd, out)
		},
	}
	o.register(cmd)
	return cmd
}

func newSchemaDigestCmd(a *app) *cobra.Command {
	var o ioFlags
	cmd := &cobra.Command{
		Use:   "digest [input [output]]",
		Short: "Print the content digest of a binary schema or a blob's header",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			s, err := readBinarySchema(cmd, &o)
			if err != nil {
				return err
			}
			d, err := borsh.Digest(s)
			if err != nil {
				return err
			}
			return o.write(cmd, []byte(d.String()+"\n"))
		},
	}
	o.register(cmd)
	return cmd
}
