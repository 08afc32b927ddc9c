package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Neumenon/borsh/borsh"
	"github.com/spf13/cobra"
)

// ioFlags holds the input and output paths every subcommand accepts, as
// -i/-o flags or as up to two positional arguments. Empty or "-" means
// stdin/stdout.
type ioFlags struct {
	input  string
	output string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "read input from this file, otherwise from stdin")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write output to this file, otherwise to stdout")
	cmd.Args = cobra.MaximumNArgs(2)
}

func (f *ioFlags) resolve(args []string) error {
	if len(args) > 0 {
		if f.input != "" {
			return fmt.Errorf("input given both as --input and as argument %q", args[0])
		}
		f.input = args[0]
	}
	if len(args) > 1 {
		if f.output != "" {
			return fmt.Errorf("output given both as --output and as argument %q", args[1])
		}
		f.output = args[1]
	}
	return nil
}

func (f *ioFlags) read(cmd *cobra.Command) ([]byte, error) {
	if f.input == "" || f.input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(f.input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// write emits the complete output in one go; callers only reach it once
// the whole result is built.
func (f *ioFlags) write(cmd *cobra.Command, data []byte) error {
	if f.output == "" || f.output == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(f.output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// textFormat picks json or yaml: an explicit flag wins, then the file
// extension, then the configured default.
func textFormat(flag, path, fallback string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	return fallback
}

func parseText(data []byte, format string) (*borsh.Value, error) {
	switch format {
	case "yaml":
		return borsh.FromYAML(data)
	case "json":
		return borsh.FromJSON(data)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func renderText(v *borsh.Value, format, indent string) ([]byte, error) {
	switch format {
	case "yaml":
		return borsh.ToYAML(v)
	case "json":
		out, err := borsh.ToJSON(v, borsh.JSONOptions{Indent: indent})
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// loadSchema reads a schema file: JSON or YAML text form by extension,
// otherwise the binary encoding. A binary file may also be a whole blob, in
// which case its header is used.
func loadSchema(path string) (*borsh.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return borsh.SchemaFromJSON(data)
	case ".yaml", ".yml":
		return borsh.SchemaFromYAML(data)
	}
	s, _, err := borsh.DecodeSchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}
