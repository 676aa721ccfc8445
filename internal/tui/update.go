package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	case storeChangedMsg:
		if err := m.planner.Store().Load(); err != nil {
			logger.Warn("failed to reload store", "error", err)
		}
		m.refresh()
		return m, m.waitForChange()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case constants.StateMoveInput:
		return m.updateMoveInput(msg)
	case constants.StateConfirmMove:
		return m.updateConfirmMove(msg)
	case constants.StateLogStudy:
		return m.updateLogStudy(msg)
	case constants.StateConfirmReschedule:
		return m.updateConfirmReschedule(msg)
	default:
		return m.updateBoard(msg)
	}
}

func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Left):
		m.setFocus((m.focus + numColumns - 1) % numColumns)
	case key.Matches(keyMsg, m.keys.Right):
		m.setFocus((m.focus + 1) % numColumns)
	case key.Matches(keyMsg, m.keys.Reload):
		if err := m.planner.Store().Load(); err != nil {
			m.setError(err)
		}
		m.refresh()
		m.status = "Reloaded"
	case key.Matches(keyMsg, m.keys.Done):
		if r, ok := m.selected(); ok {
			m.complete(r)
		}
	case key.Matches(keyMsg, m.keys.Reopen):
		if r, ok := m.selected(); ok {
			if _, err := m.planner.Reopen(r.ID); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Reopened " + r.Topic)
			}
			m.refresh()
		}
	case key.Matches(keyMsg, m.keys.Borrow):
		if r, ok := m.selected(); ok {
			return m.beginMove(r, m.board.Today)
		}
	case key.Matches(keyMsg, m.keys.Move):
		if r, ok := m.selected(); ok {
			return m.openMoveForm(r)
		}
	case key.Matches(keyMsg, m.keys.Log):
		return m.openStudyForm()
	case key.Matches(keyMsg, m.keys.Reschedule):
		return m.openRescheduleConfirm()
	default:
		var cmd tea.Cmd
		m.columns[m.focus], cmd = m.columns[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for c := range m.columns {
		m.columns[c].SetFocused(c == i)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *Model) setError(err error) {
	m.err = err
	m.status = ""
}

func (m *Model) complete(r models.Review) {
	res, err := m.planner.Complete(r.ID)
	switch {
	case errors.Is(err, scheduler.ErrPendingSubtasks):
		m.setError(fmt.Errorf("%s has %d pending subtasks", r.Topic, len(r.PendingSubtasks())))
	case err != nil:
		m.setError(err)
	case res.Carried != nil:
		m.setStatus(fmt.Sprintf("Completed %s, subtasks carried to %s", r.Topic, res.Carried.Date))
	default:
		m.setStatus("Completed " + r.Topic)
	}
	m.refresh()
}

func (m Model) openMoveForm(r models.Review) (tea.Model, tea.Cmd) {
	m.moveForm = &MoveFormModel{ReviewID: r.ID}
	today := m.board.Today
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Move %s (%s)", r.Topic, r.Date)).
				Description("today, tomorrow, +N or YYYY-MM-DD").
				Value(&m.moveForm.Target).
				Validate(func(s string) error {
					_, err := cli.ResolveDate(s, today)
					return err
				}),
		),
	)
	m.pendingMove = r
	m.state = constants.StateMoveInput
	return m, m.form.Init()
}

func (m Model) updateMoveInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = constants.StateBoard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		target, err := cli.ResolveDate(m.moveForm.Target, m.board.Today)
		if err != nil {
			m.setError(err)
			m.state = constants.StateBoard
			return m, nil
		}
		return m.beginMove(m.pendingMove, target)
	case huh.StateAborted:
		m.state = constants.StateBoard
	}
	return m, cmd
}

// beginMove applies the move straight away when there is nothing to warn
// about, otherwise asks for confirmation.
func (m Model) beginMove(r models.Review, target string) (tea.Model, tea.Cmd) {
	_, warnings, err := m.planner.CheckMove(r.ID, target)
	if err != nil {
		m.setError(err)
		m.state = constants.StateBoard
		return m, nil
	}
	if len(warnings) == 0 {
		m.applyMove(r, target)
		m.state = constants.StateBoard
		return m, nil
	}

	m.pendingMove = r
	m.warnings = warnings
	m.moveForm = &MoveFormModel{ReviewID: r.ID, Target: target}
	m.confirmForm = &ConfirmFormModel{}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "⚠ " + w.String()
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Move %s to %s anyway?", r.Topic, target)).
				Description(strings.Join(lines, "\n")).
				Affirmative("Move").
				Negative("Cancel").
				Value(&m.confirmForm.Confirmed),
		),
	)
	m.state = constants.StateConfirmMove
	return m, m.form.Init()
}

func (m *Model) applyMove(r models.Review, target string) {
	moved, err := m.planner.Move(r.ID, target)
	if err != nil {
		m.setError(err)
	} else if moved.IsTemporary {
		m.setStatus(fmt.Sprintf("Borrowed %s from %s", moved.Topic, moved.OriginalDate))
	} else {
		m.setStatus(fmt.Sprintf("Moved %s to %s", moved.Topic, moved.Date))
	}
	m.refresh()
}

func (m Model) updateConfirmMove(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.warnings = nil
		m.state = constants.StateBoard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed {
			m.applyMove(m.pendingMove, m.moveForm.Target)
		} else {
			m.setStatus("Move cancelled")
		}
		m.warnings = nil
		m.state = constants.StateBoard
		return m, nil
	case huh.StateAborted:
		m.warnings = nil
		m.state = constants.StateBoard
	}
	return m, cmd
}

func (m Model) openStudyForm() (tea.Model, tea.Cmd) {
	m.studyForm = &StudyFormModel{Minutes: "30", Complexity: string(models.ComplexityNormal)}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject").
				Value(&m.studyForm.Subject).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Topic").
				Value(&m.studyForm.Topic).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Study time (min)").
				Value(&m.studyForm.Minutes).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Complexity").
				Options(
					huh.NewOption("Normal", string(models.ComplexityNormal)),
					huh.NewOption("High", string(models.ComplexityHigh)),
				).
				Value(&m.studyForm.Complexity),
		),
	)
	m.state = constants.StateLogStudy
	return m, m.form.Init()
}

func (m Model) updateLogStudy(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = constants.StateBoard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.logStudy()
		m.state = constants.StateBoard
		return m, nil
	case huh.StateAborted:
		m.state = constants.StateBoard
	}
	return m, cmd
}

func (m *Model) logStudy() {
	minutes, _ := strconv.Atoi(m.studyForm.Minutes)
	proj, err := m.planner.LogStudy(scheduler.Entry{
		SubjectName:  strings.TrimSpace(m.studyForm.Subject),
		Topic:        strings.TrimSpace(m.studyForm.Topic),
		StudyTimeMin: minutes,
		BaseDate:     m.board.Today,
		Complexity:   models.Complexity(m.studyForm.Complexity),
	})
	switch {
	case err != nil:
		m.setError(err)
	case proj.Blocker != nil:
		m.setError(errors.New(proj.Blocker.String()))
	default:
		m.setStatus(fmt.Sprintf("Logged %s with %d reviews", m.studyForm.Topic, len(proj.Records)-1))
	}
	m.refresh()
}

func (m Model) openRescheduleConfirm() (tea.Model, tea.Cmd) {
	if len(m.board.Overdue) == 0 {
		m.setStatus("Nothing overdue")
		return m, nil
	}
	m.confirmForm = &ConfirmFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Shift %d overdue reviews to today?", len(m.board.Overdue))).
				Description("Later reviews cascade to keep their spacing.").
				Value(&m.confirmForm.Confirmed),
		),
	)
	m.state = constants.StateConfirmReschedule
	return m, m.form.Init()
}

func (m Model) updateConfirmReschedule(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = constants.StateBoard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed {
			res, err := m.planner.Reschedule(m.board.Today)
			if err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Shifted %d reviews by %d days", res.ShiftedCount, res.Shift))
			}
			m.refresh()
		}
		m.state = constants.StateBoard
		return m, nil
	case huh.StateAborted:
		m.state = constants.StateBoard
	}
	return m, cmd
}
