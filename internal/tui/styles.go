package tui

import "github.com/charmbracelet/lipgloss"

// Cell colors follow the authoring table convention: MATCH purple, ABSENT
// black-on-light, DIFFERENT in the color the author picked. The fixed
// COMPLETE column uses orange for its DIFFERENT rows.
const (
	matchColor        = "#6F00FF"
	absentColor       = "#1A1A1A"
	completeDiffColor = "#FFA500"
	interventionColor = "#808080"
)

type styles struct {
	title      lipgloss.Style
	subtitle   lipgloss.Style
	cursor     lipgloss.Style
	selected   lipgloss.Style
	unselected lipgloss.Style
	faint      lipgloss.Style
	errLine    lipgloss.Style
	okLine     lipgloss.Style
	container  lipgloss.Style
	helpKey    lipgloss.Style
	helpDesc   lipgloss.Style
	helpSep    lipgloss.Style

	match        lipgloss.Style
	absent       lipgloss.Style
	cellBase     lipgloss.Style
	intervention lipgloss.Style
}

func newStyles() styles {
	white := lipgloss.Color("#FFFFFF")
	black := lipgloss.Color("#000000")
	gray := lipgloss.Color("#9E9E9E")
	dim := lipgloss.Color("#616161")
	red := lipgloss.Color("#FF5A5A")
	green := lipgloss.Color("#00C802")

	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(white),
		subtitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0E0E0")),
		cursor:     lipgloss.NewStyle().Foreground(black).Background(white).Bold(true),
		selected:   lipgloss.NewStyle().Foreground(white).Bold(true),
		unselected: lipgloss.NewStyle().Foreground(gray),
		faint:      lipgloss.NewStyle().Foreground(dim),
		errLine:    lipgloss.NewStyle().Foreground(red),
		okLine:     lipgloss.NewStyle().Foreground(green),
		container:  lipgloss.NewStyle().Padding(1, 2),
		helpKey:    lipgloss.NewStyle().Foreground(gray).Bold(true),
		helpDesc:   lipgloss.NewStyle().Foreground(dim),
		helpSep:    lipgloss.NewStyle().Foreground(lipgloss.Color("#404040")),

		match:        lipgloss.NewStyle().Foreground(white).Background(lipgloss.Color(matchColor)).Bold(true),
		absent:       lipgloss.NewStyle().Foreground(white).Background(lipgloss.Color(absentColor)),
		cellBase:     lipgloss.NewStyle().Foreground(gray),
		intervention: lipgloss.NewStyle().Foreground(white).Background(lipgloss.Color(interventionColor)),
	}
}

// completeStyle renders the fixed COMPLETE column: the question's own Match,
// Absent or Different value for the row.
func (s styles) completeStyle(option1 string) lipgloss.Style {
	switch option1 {
	case "Match":
		return s.match
	case "Absent":
		return s.absent
	case "Different":
		return s.differentStyle(completeDiffColor)
	default:
		return s.cellBase
	}
}

// differentStyle renders a DIFFERENT cell in its chosen palette color.
func (s styles) differentStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(color)).Bold(true)
}
