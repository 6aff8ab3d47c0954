package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.theme.Title.Render(m.title)
	if m.lateOnly {
		title += " " + m.theme.StatusWarning.Render("(late days only)")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.Box.Render(m.table.View()),
		m.renderStatus(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderStatus() string {
	total := len(m.layout.Body)
	if len(m.visible) == 0 {
		if m.lateOnly {
			return m.theme.StatusInfo.Render("No late check-ins in this period.")
		}
		return m.theme.StatusInfo.Render("No rows.")
	}

	counts := m.layout.Count()
	position := fmt.Sprintf("row %d/%d", m.table.Cursor()+1, len(m.visible))
	if len(m.visible) != total {
		position += fmt.Sprintf(" (of %d)", total)
	}
	legend := fmt.Sprintf("%s %d late  %s %d estimated",
		m.theme.Late.Render(lateMarker), counts.Late,
		m.theme.Estimated.Render(estimatedMarker), counts.Estimated)

	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(position) + "  " + legend
}
