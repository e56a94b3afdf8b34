package listview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/vscroll/internal/activity"
	"github.com/rshade/vscroll/internal/virtualizer"
)

// statusLines is the number of terminal rows reserved below the list.
const statusLines = 1

// wheelStep is the number of lines scrolled per mouse wheel notch.
const wheelStep = 3

// maxMeasurePasses bounds the measure/recompute loop when newly measured
// rows pull further rows into view.
const maxMeasurePasses = 8

// settleSlack is added to the quiet period before repainting so the
// scrolling indicator has cleared by the time the tick arrives.
const settleSlack = 10 * time.Millisecond

// RenderFunc renders an item. The selected parameter indicates whether this
// item is currently selected. The result may span several lines.
type RenderFunc[T any] func(item T, selected bool) string

// settledMsg asks the model to repaint after scroll activity has gone quiet.
type settledMsg struct{}

// Model is a Bubble Tea model that windows a list through a Virtualizer.
// Heights are in terminal lines.
type Model[T any] struct {
	v      *virtualizer.Virtualizer[T]
	render RenderFunc[T]
	keys   KeyMap

	// selected is the currently selected item index (0-based)
	selected int

	width  int
	height int

	quiet    time.Duration
	quitting bool

	printer *message.Printer
	logger  zerolog.Logger
}

// NewModel creates a list over items. opts.DefaultHeight should be the
// typical row height in lines; rows are re-measured as they scroll into view.
func NewModel[T any](items []virtualizer.Item[T], render RenderFunc[T], opts virtualizer.Options) *Model[T] {
	if opts.DefaultHeight <= 0 {
		opts.DefaultHeight = 1
	}
	quiet := opts.ScrollDebounce
	if quiet <= 0 {
		quiet = activity.DefaultQuietPeriod
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "listview").Logger()
	}

	return &Model[T]{
		v:       virtualizer.New(items, opts),
		render:  render,
		keys:    DefaultKeyMap(),
		quiet:   quiet,
		printer: message.NewPrinter(language.English),
		logger:  logger,
	}
}

// Init initializes the model (required for tea.Model interface).
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles keyboard, mouse and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.v.Resize(float64(max(0, m.height-statusLines)))
		m.measureVisible()
		if m.v.Len() > 0 {
			m.reveal(m.selected)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button { //nolint:exhaustive // only the wheel scrolls the list
		case tea.MouseButtonWheelUp:
			return m, m.ScrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			return m, m.ScrollBy(wheelStep)
		}
	case settledMsg:
		// Repaint only; the tracker has already flipped to idle.
		return m, nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input for navigation.
func (m *Model[T]) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.v.Dispose()
		return tea.Quit
	}
	if m.v.Len() == 0 {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.Select(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		return m.Select(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		return m.Select(m.selected - m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		return m.Select(m.selected + m.pageSize())
	case key.Matches(msg, m.keys.Home):
		return m.Select(0)
	case key.Matches(msg, m.keys.End):
		return m.Select(m.v.Len() - 1)
	}
	return nil
}

// Select moves the selection to index, capped to valid bounds, and scrolls
// the minimum distance needed to show it in full.
func (m *Model[T]) Select(index int) tea.Cmd {
	n := m.v.Len()
	if n == 0 {
		m.selected = 0
		return nil
	}
	m.selected = min(max(index, 0), n-1)

	before := m.v.Viewport().ScrollOffset
	m.reveal(m.selected)
	if m.v.Viewport().ScrollOffset == before {
		return nil
	}
	return m.settleCmd()
}

// ScrollBy moves the viewport by delta lines without changing the selection.
func (m *Model[T]) ScrollBy(delta float64) tea.Cmd {
	if m.v.Disposed() {
		return nil
	}
	current := m.v.Viewport().ScrollOffset
	target := min(max(current+delta, 0), m.v.MaxScrollOffset())
	if target == current {
		return nil
	}
	m.v.Scroll(target)
	m.measureVisible()
	return m.settleCmd()
}

// reveal scrolls index into view, re-measuring until newly visible rows
// stop changing the layout.
func (m *Model[T]) reveal(index int) {
	m.measureItem(index)
	for range maxMeasurePasses {
		m.v.ScrollToIndex(index)
		if !m.measureVisible() {
			return
		}
	}
	m.logger.Debug().Int("index", index).Msg("layout did not settle while revealing item")
}

// measureVisible renders every row in the current range and feeds heights
// that differ from the size model back to the virtualizer. It reports whether
// any height changed.
func (m *Model[T]) measureVisible() bool {
	grew := false
	for range maxMeasurePasses {
		r := m.v.Range()
		if r.Empty {
			return grew
		}
		changed := false
		for i := r.Start; i <= r.End; i++ {
			if m.measureItem(i) {
				changed = true
			}
		}
		if !changed {
			return grew
		}
		grew = true
	}
	return grew
}

// measureItem measures one row and reports whether its height changed.
func (m *Model[T]) measureItem(index int) bool {
	item, ok := m.v.Item(index)
	if !ok {
		return false
	}
	h := float64(lipgloss.Height(m.render(item.Data, index == m.selected)))
	if h == m.v.Sizes().HeightOf(index) {
		return false
	}
	m.v.MeasureHeight(index, h)
	return true
}

func (m *Model[T]) settleCmd() tea.Cmd {
	return tea.Tick(m.quiet+settleSlack, func(time.Time) tea.Msg {
		return settledMsg{}
	})
}

// pageSize is the number of items a page key moves the selection by.
func (m *Model[T]) pageSize() int {
	return max(1, int(m.v.Viewport().Size))
}

// View renders the rows intersecting the viewport followed by a status line.
func (m *Model[T]) View() string {
	if m.quitting {
		return ""
	}
	if m.v.Len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, EmptyStyle.Render("No items"), m.statusLine())
	}

	rows, err := virtualizer.Render(m.v, func(item virtualizer.Item[T], index int, _ float64) (string, error) {
		return m.render(item.Data, index == m.selected), nil
	})
	if err != nil {
		return "Error: " + err.Error()
	}

	vp := m.v.Viewport()
	size := int(vp.Size)
	lines := make([]string, 0, size)
	if len(rows) > 0 {
		all := strings.Split(strings.Join(rows, "\n"), "\n")
		skip := max(0, int(vp.ScrollOffset-m.v.Range().RenderOffset))
		for i := skip; i < len(all) && len(lines) < size; i++ {
			lines = append(lines, all[i])
		}
	}
	for len(lines) < size {
		lines = append(lines, "")
	}

	body := strings.Join(lines, "\n")
	if m.width > 0 {
		body = lipgloss.NewStyle().MaxWidth(m.width).Render(body)
	}
	if size == 0 {
		return m.statusLine()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

// statusLine renders the position counter, scroll indicator and key help.
func (m *Model[T]) statusLine() string {
	pos := 0
	if m.v.Len() > 0 {
		pos = m.selected + 1
	}
	parts := []string{StatusStyle.Render(m.printer.Sprintf("%d/%d", pos, m.v.Len()))}
	if m.v.IsScrolling() {
		parts = append(parts, ScrollingStyle.Render("Scrolling..."))
	}

	help := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	parts = append(parts, HelpStyle.Render(strings.Join(help, " • ")))

	return strings.Join(parts, "  ")
}

// SetItems replaces the list contents, keeping the selection in bounds.
func (m *Model[T]) SetItems(items []virtualizer.Item[T]) {
	m.v.SetItems(items)
	m.selected = min(m.selected, max(0, len(items)-1))
	m.measureVisible()
}

// ItemCount returns the total number of items in the list.
func (m *Model[T]) ItemCount() int {
	return m.v.Len()
}

// Selected returns the currently selected item index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// SelectedItem returns the currently selected item, or false if the list is empty.
func (m *Model[T]) SelectedItem() (virtualizer.Item[T], bool) {
	return m.v.Item(m.selected)
}

// Virtualizer exposes the underlying windowing state.
func (m *Model[T]) Virtualizer() *virtualizer.Virtualizer[T] {
	return m.v
}

// Height returns the terminal height.
func (m *Model[T]) Height() int {
	return m.height
}

// Width returns the terminal width.
func (m *Model[T]) Width() int {
	return m.width
}
