package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// renderHelp renders the help box listing every binding in keys.
func renderHelp(keys KeyMap) string {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(ColorTextMuted)

	lines := []string{
		helpTitleStyle.Render("Keyboard Shortcuts"),
		h.View(keys),
		"",
		LabelStyle.Render("Press ? to close"),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}
