package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/vscroll/internal/trace"
)

// tabPadding is the column gap for table output.
const tabPadding = 2

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// newSimulateCmd creates the simulate command.
func newSimulateCmd(state *appState) *cobra.Command {
	var (
		tracePaths []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay scroll traces and print the visible range after each event",
		Long: `Replays YAML traces of scroll, resize and height-measurement events through
the windowing engine on a simulated clock, printing the visible range, render
offset, total extent and scrolling flag after every event. Several traces are
replayed in parallel and reported in the order given.`,
		Example: `  # Replay a trace as a table
  vscroll simulate --trace session.yaml

  # Compare two sessions, as JSON for scripting
  vscroll simulate -t before.yaml -t after.yaml --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, state, tracePaths, output)
		},
	}

	cmd.Flags().StringSliceVarP(&tracePaths, "trace", "t", nil, "trace file to replay (YAML); repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

// replayResult is the outcome of one trace.
type replayResult struct {
	Trace string       `json:"trace"`
	Steps []trace.Step `json:"steps"`
}

func runSimulate(cmd *cobra.Command, state *appState, tracePaths []string, output string) error {
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("unsupported output format %q (want %s or %s)", output, outputTable, outputJSON)
	}

	results, err := replayAll(cmd.Context(), state, tracePaths)
	if err != nil {
		return err
	}

	if output == outputJSON {
		return renderStepsJSON(cmd.OutOrStdout(), results)
	}
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", r.Trace)
		}
		if err = renderStepsTable(cmd.OutOrStdout(), r.Steps); err != nil {
			return err
		}
	}
	return nil
}

// replayAll replays each trace on its own virtualizer, bounded by GOMAXPROCS.
// Results keep the order of paths; the first failure cancels the rest.
func replayAll(ctx context.Context, state *appState, paths []string) ([]replayResult, error) {
	results := make([]replayResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			t, err := trace.LoadFile(path)
			if err != nil {
				return err
			}

			opts := state.cfg.VirtualizerOptions()
			opts.Logger = &logger
			steps, err := trace.Replay(t, opts)
			if err != nil {
				return fmt.Errorf("replaying trace %s: %w", path, err)
			}

			logger.Debug().
				Str("trace", path).
				Int("items", t.Items.Count).
				Int("events", len(t.Events)).
				Msg("trace replayed")

			results[i] = replayResult{Trace: path, Steps: steps}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderStepsJSON(w io.Writer, results []replayResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderStepsTable(out io.Writer, steps []trace.Step) error {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Step\tAt\tEvent\tRange\tOffset\tTotal\tScrolling")
	fmt.Fprintln(w, "----\t--\t-----\t-----\t------\t-----\t---------")

	for _, s := range steps {
		rng := "-"
		if !s.Empty {
			rng = p.Sprintf("%d-%d", s.Start, s.End)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Step,
			s.At,
			s.Event,
			rng,
			p.Sprintf("%.0f", s.RenderOffset),
			p.Sprintf("%.0f", s.TotalExtent),
			yesNo(s.Scrolling),
		)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
