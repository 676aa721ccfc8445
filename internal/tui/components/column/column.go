package column

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/recall/internal/models"
)

type Item struct {
	Review models.Review
	Today  string
}

func (i Item) Title() string {
	r := i.Review
	prefix := ""
	switch {
	case r.IsDone():
		prefix = "✓ "
	case r.IsTemporary:
		prefix = "↩ "
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(swatchColor(r.Color))).Render("●")
	return fmt.Sprintf("%s%s %s · %s", prefix, swatch, r.SubjectName, r.Topic)
}

func (i Item) Description() string {
	r := i.Review
	parts := []string{typeLabel(r.Type), fmt.Sprintf("%d min", r.TimeMin)}
	if r.Date != i.Today {
		parts = append(parts, r.Date)
	}
	if r.CycleIndex > 0 {
		parts = append(parts, fmt.Sprintf("#%d", r.CycleIndex))
	}
	if r.IsTemporary && r.OriginalDate != "" {
		parts = append(parts, "from "+r.OriginalDate)
	}
	if pending := len(r.PendingSubtasks()); pending > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d subtasks", len(r.Subtasks)-pending, len(r.Subtasks)))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Review.SubjectName + " " + i.Review.Topic }

func typeLabel(t models.ReviewType) string {
	if t == models.ReviewLegacy {
		return "REVIEW"
	}
	return string(t)
}

func swatchColor(c string) string {
	if c == "" {
		return "240"
	}
	return c
}

// Model is one board column: a titled, non-filtering list of reviews.
type Model struct {
	title   string
	list    list.Model
	focused bool
}

func New(title string, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return Model{title: title, list: l}
}

// SetReviews replaces the column contents, keeping the cursor in range.
func (m *Model) SetReviews(reviews []models.Review, today string) {
	items := make([]list.Item, len(reviews))
	for i, r := range reviews {
		items[i] = Item{Review: r, Today: today}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	m.list.Title = fmt.Sprintf("%s (%d)", m.title, len(reviews))
}

// Selected returns the review under the cursor.
func (m Model) Selected() (models.Review, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Review{}, false
	}
	return item.Review, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

func (m Model) Focused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
