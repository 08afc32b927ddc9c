package main

import (
	"github.com/Neumenon/borsh/borsh"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var o ioFlags
	cmd := &cobra.Command{
		Use:   "extract [input [output]]",
		Short: "Copy the schema header out of a Borsh blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			data, err := o.read(cmd)
			if err != nil {
				return err
			}
			header, err := borsh.Extract(data)
			if err != nil {
				return err
			}
			a.log.WithField("bytes", len(header)).Debug("extracted schema header")
			return o.write(cmd, header)
		},
	}
	o.register(cmd)
	return cmd
}

func newStripCmd(a *app) *cobra.Command {
	var o ioFlags
	cmd := &cobra.Command{
		Use:   "strip [input [output]]",
		Short: "Remove the schema header from a Borsh blob",
		Long: `Remove the schema header from a Borsh blob.

Input that does not start with a schema is passed through unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(args); err != nil {
				return err
			}
			data, err := o.read(cmd)
			if err != nil {
				return err
			}
			payload := borsh.Strip(data)
			if len(payload) == len(data) {
				a.log.Debug("no schema header; passing input through")
			}
			return o.write(cmd, payload)
		},
	}
	o.register(cmd)
	return cmd
}
