package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lszeremeta/sesame-rio-api/internal/config"
	"github.com/lszeremeta/sesame-rio-api/internal/log"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rio <input> <output>",
		Short: "Convert RDF documents between formats",
		Long: "Convert an RDF document between formats. Formats are inferred from the file\n" +
			"extensions; a trailing .gz on either path is decompressed or compressed.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Flags())
		},
		RunE: a.runConvert,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file path (YAML)")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Bool("log-pretty", false, "enable pretty logging")

	flags := root.Flags()
	flags.String("default-format", "", "format used when a file extension is not recognized")
	flags.String("base-uri", "", "base IRI for the input (default file:<input>)")
	flags.StringSlice("non-fatal", nil, "setting key of an error condition to tolerate (repeatable)")
	flags.Bool("preserve-bnode-ids", false, "keep blank node identifiers from the input")
	flags.Bool("pretty", true, "pretty-print the output")
	flags.String("metrics-out", "", "write pipeline metrics in Prometheus text format to this file")

	root.AddCommand(a.formatsCmd(), a.acceptCmd(), versionCmd())
	return root
}

func (a *app) init(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.New(cfg.Log.Level, cfg.Log.Pretty)
	rio.SetLogger(a.log.With().Str("component", "rio").Logger())
	return nil
}

// applyFlags overrides file and environment values with explicitly set flags.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty, _ = flags.GetBool("log-pretty")
	}

	if flags.Changed("default-format") {
		cfg.Convert.DefaultFormat, _ = flags.GetString("default-format")
	}
	if flags.Changed("base-uri") {
		cfg.Convert.BaseURI, _ = flags.GetString("base-uri")
	}
	if flags.Changed("non-fatal") {
		cfg.Convert.NonFatal, _ = flags.GetStringSlice("non-fatal")
	}
	if flags.Changed("preserve-bnode-ids") {
		cfg.Convert.PreserveBNodeIDs, _ = flags.GetBool("preserve-bnode-ids")
	}
	if flags.Changed("pretty") {
		cfg.Convert.Pretty, _ = flags.GetBool("pretty")
	}
	if flags.Changed("metrics-out") {
		cfg.Convert.MetricsOut, _ = flags.GetString("metrics-out")
	}
}
