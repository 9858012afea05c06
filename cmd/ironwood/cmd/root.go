// Package cmd implements the ironwood CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type rootOptions struct {
	configDir   string
	logLevel    string
	logFormat   string
	telemetry   string
	metricsAddr string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "ironwood",
		Short: "Ironwood - a message-driven UI core",
		Long: `Ironwood runs programs built from a model, an update function and a
view. Views are lowered to a backend-agnostic IR and drawn by a backend.

Use "ironwood <command> --help" for more information about a command.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configDir, "config", "", "directory holding ironwood.yaml (default: project root)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&opts.telemetry, "telemetry", "", "OpenTelemetry exporter: none or stdout")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newRunCommand(opts),
		newIRCommand(opts),
		newDemosCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
