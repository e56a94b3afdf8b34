package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vscroll/internal/config"
)

func TestBrowse_RequiresTerminal(t *testing.T) {
	state := &appState{
		cfg:         config.New(),
		stdinIsTTY:  func() bool { return false },
		stdoutIsTTY: func() bool { return true },
	}

	cmd := newBrowseCmd(state)
	cmd.SetArgs([]string{"--count", "10"})
	err := cmd.Execute()
	require.ErrorIs(t, err, ErrNotTerminal)

	cmd = newBrowseCmd(state)
	cmd.SetArgs([]string{"--count", "-1"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotTerminal)
}

func TestBrowseOptions(t *testing.T) {
	state := &appState{cfg: config.New()}

	opts := browseOptions(state, false, 0)
	assert.InDelta(t, 1.0, opts.DefaultHeight, 0, "terminal rows are one line by default")
	assert.Equal(t, 5, opts.Overscan)
	assert.NotNil(t, opts.Logger)

	opts = browseOptions(state, true, 0)
	assert.Equal(t, 0, opts.Overscan, "an explicit zero disables overscan")
}

func TestGenerateRows(t *testing.T) {
	rows := generateRows(22)
	require.Len(t, rows, 22)

	seen := make(map[string]bool)
	for i, r := range rows {
		assert.Len(t, r.ID, 26, "ULID string form")
		assert.False(t, seen[r.ID], "duplicate id at %d", i)
		seen[r.ID] = true
		assert.True(t, strings.HasPrefix(r.Data, "#"))
	}

	assert.Equal(t, 3, lipgloss.Height(rows[0].Data), "row 0 has both detail lines")
	assert.Equal(t, 1, lipgloss.Height(rows[1].Data))
	assert.Equal(t, 2, lipgloss.Height(rows[3].Data))
	assert.Equal(t, 2, lipgloss.Height(rows[7].Data))
	assert.Equal(t, 3, lipgloss.Height(rows[21].Data))
}

func TestRenderRow(t *testing.T) {
	row := "#3  ID\n    detail for row 3"

	plain := renderRow(row, false)
	assert.True(t, strings.HasPrefix(plain, "  #3"))

	selected := renderRow(row, true)
	assert.Contains(t, selected, "> #3  ID")
	assert.Equal(t, lipgloss.Height(plain), lipgloss.Height(selected))
}
