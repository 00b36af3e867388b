package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type row struct {
	Key, Value string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// renderSummary draws a bordered card with a title and aligned key/value rows.
func renderSummary(title string, rows []row) string {
	width := 0
	for _, r := range rows {
		if len(r.Key) > width {
			width = len(r.Key)
		}
	}
	lines := []string{titleStyle.Render(title)}
	for _, r := range rows {
		key := keyStyle.Render(r.Key + ":" + strings.Repeat(" ", width-len(r.Key)))
		lines = append(lines, key+" "+r.Value)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
