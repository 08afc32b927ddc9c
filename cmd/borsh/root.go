package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Neumenon/borsh/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath   string
	logLevel     string
	logFormatter string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	cmd := &cobra.Command{
		Use:           "borsh",
		Short:         "Convert between JSON and Borsh binary data",
		Long:          "`borsh` encodes JSON or YAML values as Borsh, optionally guided by a schema that travels with the data as a header, and decodes them back.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&a.logFormatter, "log-formatter", "", "log formatter: text or json (overrides config)")

	cmd.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newExtractCmd(a),
		newStripCmd(a),
		newPackCmd(a),
		newUnpackCmd(a),
		newSchemaCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormatter != "" {
		cfg.Log.Formatter = a.logFormatter
	}
	a.cfg = cfg
	a.log.SetOutput(stderr)
	return configureLogging(a.log, cfg.Log)
}

func configureLogging(log *logrus.Logger, cfg config.Log) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	switch cfg.Formatter {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return fmt.Errorf("unsupported logging formatter: %q", cfg.Formatter)
	}
	log.Debugf("using %q logging formatter", cfg.Formatter)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "borsh %s\n", libVersion)
			return err
		},
	}
}
