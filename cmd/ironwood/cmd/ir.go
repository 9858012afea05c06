package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironwood-ui/ironwood/cmd/ironwood/internal/demo"
	"github.com/ironwood-ui/ironwood/pkg/backend/textual"
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

type irDocument struct {
	IRVersion string   `json:"irVersion"`
	Version   uint64   `json:"version"`
	Changes   []ir.Key `json:"changed,omitempty"`
	Tree      *ir.Node `json:"tree"`
}

func newIRCommand(root *rootOptions) *cobra.Command {
	var taps []string
	var compact bool
	c := &cobra.Command{
		Use:   "ir <demo>",
		Short: "Print a demo's IR as JSON",
		Long: `Lower a demo's view to IR and print it as JSON.

Buttons given with --tap are activated in order first, waiting for any
asynchronous work they start.`,
		Example: "  ironwood ir counter --tap + --tap x2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := demo.Lookup(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := d.Start(textual.DefaultOptions(), s.options...)
			if err != nil {
				return err
			}
			defer r.Stop()

			f, err := r.Render()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			for _, label := range taps {
				if err := activate(r, label); err != nil {
					return err
				}
				if err := r.Settle(ctx); err != nil {
					return err
				}
			}
			if last, ok := r.Last(); ok {
				f = last
			}

			doc := irDocument{IRVersion: ir.Version, Version: f.Version, Tree: f.IR}
			if len(taps) > 0 {
				doc.Changes = f.Changes.Changed
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(doc)
		},
	}
	c.Flags().StringArrayVar(&taps, "tap", nil, "activate the button with this label (repeatable)")
	c.Flags().BoolVar(&compact, "compact", false, "print without indentation")
	return c
}
