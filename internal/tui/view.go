package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/recall/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case constants.StateMoveInput, constants.StateConfirmMove, constants.StateLogStudy, constants.StateConfirmReschedule:
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2).
				Render(m.form.View()),
		)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if banner := m.bannerView(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cols := make([]string, numColumns)
	for i, c := range m.columns {
		style := inactiveColumnStyle
		if i == m.focus {
			style = activeColumnStyle
		}
		cols[i] = style.Render(c.View())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(dangerStyle.Render("❌ " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) headerView() string {
	title := headerStyle.Render(fmt.Sprintf("%s · %s", constants.AppName, m.board.Today))
	load := fmt.Sprintf("%d/%d min today", m.board.TodayLoad, m.board.Capacity)
	if n := len(m.board.Borrowed()); n > 0 {
		load += fmt.Sprintf(" · %d borrowed", n)
	}
	loadStyle := capacityStyle
	if m.board.Capacity > 0 && m.board.TodayLoad > m.board.Capacity {
		loadStyle = loadStyle.Foreground(lipgloss.Color("196"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, loadStyle.Render(load))
}

// bannerView summarises validation conflicts.
func (m Model) bannerView() string {
	if !m.validity.HasConflicts() {
		return ""
	}
	return warningStyle.Render(fmt.Sprintf("⚠ %d conflicts detected. Run '%s validate' for details.",
		len(m.validity.Conflicts), constants.AppName))
}
