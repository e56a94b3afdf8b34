package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	listview "github.com/rshade/vscroll/internal/tui/list"
	"github.com/rshade/vscroll/internal/virtualizer"
)

// defaultBrowseCount is the number of generated rows when --count is not set.
const defaultBrowseCount = 100_000

// ErrNotTerminal is returned when browse runs without an interactive terminal.
var ErrNotTerminal = errors.New("browse requires an interactive terminal")

// newBrowseCmd creates the browse command.
func newBrowseCmd(state *appState) *cobra.Command {
	var (
		count    int
		overscan int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a large generated list in the terminal",
		Long: `Opens an interactive list of generated rows with varying heights. Only the
rows intersecting the terminal are rendered; heights are measured as rows
scroll into view.`,
		Example: `  # Browse 100,000 rows
  vscroll browse

  # Fewer rows and no overscan
  vscroll browse --count 500 --overscan 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("count must be >= 0, got %d", count)
			}
			if !state.stdinIsTTY() || !state.stdoutIsTTY() {
				return ErrNotTerminal
			}

			opts := browseOptions(state, cmd.Flags().Changed("overscan"), overscan)
			model := listview.NewModel(generateRows(count), renderRow, opts)
			defer model.Virtualizer().Dispose()

			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running list browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", defaultBrowseCount, "number of rows to generate")
	cmd.Flags().IntVar(&overscan, "overscan", 0, "rows rendered beyond each edge (default from config)")

	return cmd
}

// browseOptions adapts the configured window settings to terminal lines.
func browseOptions(state *appState, overscanSet bool, overscan int) virtualizer.Options {
	opts := state.cfg.VirtualizerOptions()
	opts.DefaultHeight = 1
	if overscanSet {
		opts.Overscan = overscan
	}
	opts.Logger = &logger
	return opts
}

// generateRows builds count rows with ULID identifiers. Every third row has a
// detail line and every seventh row two, so heights vary.
func generateRows(count int) []virtualizer.Item[string] {
	items := make([]virtualizer.Item[string], count)
	for i := range items {
		id := ulid.Make().String()
		var b strings.Builder
		fmt.Fprintf(&b, "#%d  %s", i, id)
		if i%3 == 0 {
			fmt.Fprintf(&b, "\n    detail for row %d", i)
		}
		if i%7 == 0 {
			b.WriteString("\n    second detail line")
		}
		items[i] = virtualizer.Item[string]{ID: id, Data: b.String()}
	}
	return items
}

// renderRow highlights the first line of the selected row.
func renderRow(row string, selected bool) string {
	if !selected {
		return "  " + row
	}
	first, rest, found := strings.Cut(row, "\n")
	out := listview.SelectedStyle.Render("> " + first)
	if found {
		out += "\n" + rest
	}
	return out
}
