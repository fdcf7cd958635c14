package articulation

import (
	"fmt"

	"lolmath/internal/perception"

	"github.com/charmbracelet/lipgloss"
)

var (
	allyColor  = lipgloss.Color("#2196F3")
	enemyColor = lipgloss.Color("#e53935")
	mutedColor = lipgloss.Color("#8b949e")
	accentCol  = lipgloss.Color("#8BC34A")

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentCol).
			Padding(0, 2)
	allyStyle  = lipgloss.NewStyle().Bold(true).Foreground(allyColor)
	enemyStyle = lipgloss.NewStyle().Bold(true).Foreground(enemyColor)
	metaStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	rateStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentCol)
)

// Header renders a compact styled banner for the top of terminal output.
func Header(a *perception.Analysis) string {
	if a == nil {
		return ""
	}
	m := a.Matchup
	title := lipgloss.JoinHorizontal(lipgloss.Center,
		allyStyle.Render(m.Champion),
		metaStyle.Render("  vs  "),
		enemyStyle.Render(m.Opponent),
	)

	meta := metaStyle.Render(m.Role.Label())
	if a.Record != nil {
		meta = lipgloss.JoinHorizontal(lipgloss.Left,
			metaStyle.Render(fmt.Sprintf("%s · patch %s · win rate ", m.Role.Label(), a.Record.Patch)),
			rateStyle.Render(a.Record.WinRatePrediction),
		)
	}
	return bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, meta))
}
