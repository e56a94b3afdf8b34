// Package listview provides a virtualized list component for Bubble Tea TUI applications.
//
// The model keeps a virtualizer.Virtualizer in terminal-line units and only
// renders the items that intersect the terminal plus an overscan margin. Key features:
//   - Variable-height rows measured with lipgloss.Height as they come into view
//   - Keyboard navigation (up/down, pgup/pgdn, home/end, j/k) via bubbles/key
//   - Mouse wheel scrolling with a "Scrolling..." indicator while events arrive
//   - Thousands-separated position counter in the status line
//
// Lists with hundreds of thousands of rows start immediately because nothing
// outside the visible window is ever rendered or measured.
package listview
