package listview

import "github.com/charmbracelet/lipgloss"

// Styles used by the list view.
//
//nolint:gochecknoglobals // lipgloss styles are shared read-only values
var (
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ScrollingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
