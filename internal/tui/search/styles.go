package search

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Bold(true).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			Padding(0, 1)

	titleItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0AF")).
				Background(lipgloss.Color("#224"))

	excerptStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.AdaptiveColor{Light: "#555", Dark: "#999"})

	cardStyle = lipgloss.NewStyle().
			MarginLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#334455"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55")).
			Bold(true)
)
