package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubble-arcade/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
// Palette colors use true-color hex values; lipgloss degrades them on
// terminals with fewer colors.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	core.ColorPink:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B9D")),
	core.ColorTeal:      lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")),
	core.ColorSky:       lipgloss.NewStyle().Foreground(lipgloss.Color("#45B7D1")),
	core.ColorOrange:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA07A")),
	core.ColorMint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#98D8C8")),
	core.ColorGold:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")),
	core.ColorSoftGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("#A8E6CF")),
	core.ColorPurple:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if startColor == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
