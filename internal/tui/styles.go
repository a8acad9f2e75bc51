package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wispkit/wisp/internal/theme"
)

// styleSet holds the lipgloss styles derived from the active theme. It is
// rebuilt whenever the theme changes.
type styleSet struct {
	border lipgloss.Border

	title  lipgloss.Style
	body   lipgloss.Style
	dim    lipgloss.Style
	button lipgloss.Style

	header    lipgloss.Style
	headerDim lipgloss.Style
	bar       lipgloss.Style
	barKey    lipgloss.Style
	status    lipgloss.Style
	statusErr lipgloss.Style
}

func newStyles(th *theme.Theme) styleSet {
	titleColor := lipgloss.Color(th.Colors.Title)
	bodyColor := lipgloss.Color(th.Colors.Body)
	dimColor := lipgloss.Color(th.Colors.Dim)

	return styleSet{
		border: borderFor(th.Border),

		title:  lipgloss.NewStyle().Bold(true).Foreground(titleColor),
		body:   lipgloss.NewStyle().Foreground(bodyColor),
		dim:    lipgloss.NewStyle().Foreground(dimColor),
		button: lipgloss.NewStyle().Reverse(true).Padding(0, 1),

		header:    lipgloss.NewStyle().Bold(true).Foreground(titleColor),
		headerDim: lipgloss.NewStyle().Foreground(dimColor),
		bar:       lipgloss.NewStyle().Foreground(dimColor),
		barKey:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		status:    lipgloss.NewStyle().Foreground(bodyColor),
		statusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// borderFor maps a theme border name onto a lipgloss border. Unknown names
// fall back to rounded, matching theme validation.
func borderFor(name string) lipgloss.Border {
	switch name {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}
