package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironwood-ui/ironwood/cmd/ironwood/internal/demo"
	"github.com/ironwood-ui/ironwood/pkg/backend/textual"
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

func newRunCommand(root *rootOptions) *cobra.Command {
	var cellWidth, lineHeight float64
	c := &cobra.Command{
		Use:   "run <demo>",
		Short: "Run a demo in the terminal",
		Long: `Run a demo with the textual backend.

Each frame is printed after the model changes. Commands are read from
standard input, one per line:

  <label>    activate the button with this label
  /<key>     activate the interactive node with this IR key
  keys       list the interactive nodes of the current frame
  quit       exit`,
		Args: cobra.ExactArgs(1),
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r, err := d.Start(textual.Options{CellWidth: cellWidth, LineHeight: lineHeight}, s.options...)
			if err != nil {
				return err
			}
			defer r.Stop()
			s.logger.Debug("demo started", "demo", d.Name, "app", s.cfg.AppName)
			return drive(ctx, r, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	defaults := textual.DefaultOptions()
	c.Flags().Float64Var(&cellWidth, "cell-width", defaults.CellWidth, "logical pixels per character cell")
	c.Flags().Float64Var(&lineHeight, "line-height", defaults.LineHeight, "logical pixels per line")
	return c
}

// drive prints the initial frame, then applies one command per input line
// and prints every new frame until input ends or quit is read.
func drive(ctx context.Context, r demo.Runner, in io.Reader, out io.Writer) error {
	f, err := r.Render()
	if err != nil {
		return err
	}
	printFrame(out, f)
	shown := f.Version

	lines := bufio.NewScanner(in)
	for lines.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(lines.Text())
		switch line {
		case "":
			continue
		case "quit", "q", "exit":
			return nil
		case "keys":
			last, _ := r.Last()
			listKeys(out, last.IR)
			continue
		}

		if err := activate(r, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if err := r.Settle(ctx); err != nil {
			return err
		}
		if last, ok := r.Last(); ok && last.Version != shown {
			printFrame(out, last)
			shown = last.Version
		}
	}
	return lines.Err()
}

func activate(r demo.Runner, line string) error {
	if strings.HasPrefix(line, "/") {
		return r.Activate(ir.Key(line))
	}
	last, _ := r.Last()
	var match []ir.Key
	ir.Walk(last.IR, func(n *ir.Node) bool {
		if n.Kind == ir.KindInteraction && n.Content != nil && n.Content.Text == line {
			match = append(match, n.Key)
		}
		return true
	})
	switch len(match) {
	case 0:
		return fmt.Errorf("no button labelled %q", line)
	case 1:
		return r.Activate(match[0])
	default:
		return fmt.Errorf("%d buttons labelled %q; use a key", len(match), line)
	}
}

func printFrame(out io.Writer, f demo.Frame) {
	fmt.Fprintf(out, "--- frame %d ---\n%s\n", f.Version, f.Output)
}

func listKeys(out io.Writer, root *ir.Node) {
	ir.Walk(root, func(n *ir.Node) bool {
		if n.Kind == ir.KindInteraction {
			state := "enabled"
			if !n.Interaction.Enabled() {
				state = "disabled"
			}
			fmt.Fprintf(out, "%-32s %-10s %s\n", n.Key, state, n.Content.Text)
		}
		return true
	})
}
