package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ironwood-ui/ironwood/cmd/ironwood/internal/demo"
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ironwood %s (built %s, %s)\nIR %s\n", Version, BuildTime, runtime.Version(), ir.Version)
		},
	}
}

func newDemosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demos",
		Short: "List the bundled demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range demo.Names() {
				d, err := demo.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", d.Name, d.Description)
			}
			return nil
		},
	}
}
