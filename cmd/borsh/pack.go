package main

import (
	"github.com/Neumenon/borsh/borsh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type packOptions struct {
	io       ioFlags
	noSchema bool
	compress bool
}

func (o *packOptions) register(cmd *cobra.Command, noSchemaUsage string) {
	o.io.register(cmd)
	cmd.Flags().BoolVarP(&o.noSchema, "no-schema", "n", false, noSchemaUsage)
	cmd.Flags().BoolVarP(&o.compress, "compress", "z", false, "zstd-compress the bytes inside the frame")
}

func (o *packOptions) options() borsh.PackOptions {
	return borsh.PackOptions{NoSchema: o.noSchema, Compress: o.compress}
}

func newPackCmd(a *app) *cobra.Command {
	var o packOptions
	cmd := &cobra.Command{
		Use:   "pack [input [output]]",
		Short: "Serialize the input as a Vec<u8> binary blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.io.resolve(args); err != nil {
				return err
			}
			data, err := o.io.read(cmd)
			if err != nil {
				return err
			}
			out, err := borsh.PackBytes(data, o.options())
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"in": len(data), "out": len(out)}).Debug("packed")
			return o.io.write(cmd, out)
		},
	}
	o.register(cmd, "omit the Vec<u8> schema header")
	return cmd
}

func newUnpackCmd(a *app) *cobra.Command {
	var o packOptions
	cmd := &cobra.Command{
		Use:   "unpack [input [output]]",
		Short: "Extract the bytes of a Vec<u8> blob written by pack",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.io.resolve(args); err != nil {
				return err
			}
			data, err := o.io.read(cmd)
			if err != nil {
				return err
			}
			out, err := borsh.UnpackBytes(data, o.options())
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"in": len(data), "out": len(out)}).Debug("unpacked")
			return o.io.write(cmd, out)
		},
	}
	o.register(cmd, "the input has no Vec<u8> schema header")
	return cmd
}
