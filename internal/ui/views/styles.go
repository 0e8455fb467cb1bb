package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Input       lipgloss.Style
	ResultList  lipgloss.Style
	Result      lipgloss.Style
	ResultFocus lipgloss.Style
	Alert       lipgloss.Style
	AlertTitle  lipgloss.Style
	Card        lipgloss.Style
	CardFocus   lipgloss.Style
	CardTitle   lipgloss.Style
	CardBody    lipgloss.Style
	PageButton  lipgloss.Style
	PageCurrent lipgloss.Style
	Loading     lipgloss.Style
	Selected    lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	cardBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		BorderForeground(lipgloss.Color("241"))

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:  lipgloss.NewStyle().Faint(true),
		Help: lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main: lipgloss.NewStyle().Padding(1, 2),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		ResultList: lipgloss.NewStyle().PaddingLeft(1),
		Result:     lipgloss.NewStyle().PaddingLeft(2),
		ResultFocus: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("226")).
			Background(lipgloss.Color("238")),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("203")).
			Foreground(lipgloss.Color("203")). // red
			Padding(0, 2),
		AlertTitle:  lipgloss.NewStyle().Bold(true),
		Card:        cardBase,
		CardFocus:   cardBase.BorderForeground(lipgloss.Color("99")),
		CardTitle:   lipgloss.NewStyle().Bold(true),
		CardBody:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PageButton:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("252")),
		PageCurrent: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("99")),
		Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241")),
		TabActive:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("99")),
	}
}
