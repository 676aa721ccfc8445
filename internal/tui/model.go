package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/tui/components/column"
	"github.com/julianstephens/recall/internal/validation"
)

const (
	colOverdue = iota
	colToday
	colUpcoming
	colDone
	numColumns
)

var columnTitles = [numColumns]string{"Overdue", "Today", "Upcoming", "Done"}

// Options configures the board.
type Options struct {
	// UpcomingDays is how far ahead the Upcoming column looks.
	UpcomingDays int
	// Changes delivers a value whenever the store was written by another
	// process. Nil disables live reload.
	Changes <-chan struct{}
}

type MoveFormModel struct {
	ReviewID string
	Target   string
}

type ConfirmFormModel struct {
	Confirmed bool
}

type StudyFormModel struct {
	Subject    string
	Topic      string
	Minutes    string
	Complexity string
}

type storeChangedMsg struct{}

type Model struct {
	planner *planner.Planner
	opts    Options

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	columns  [numColumns]column.Model
	focus    int
	board    planner.Board
	validity validation.ValidationResult

	form        *huh.Form
	moveForm    *MoveFormModel
	confirmForm *ConfirmFormModel
	studyForm   *StudyFormModel
	pendingMove models.Review
	warnings    []validation.Warning

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(p *planner.Planner, opts Options) Model {
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = 7
	}
	m := Model{
		planner: p,
		opts:    opts,
		state:   constants.StateBoard,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		focus:   colToday,
		width:   120,
		height:  30,
	}
	for i := range m.columns {
		m.columns[i] = column.New(columnTitles[i], 0, 0)
	}
	m.resize()
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until the watcher reports an external write.
func (m Model) waitForChange() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	ch := m.opts.Changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// refresh rebuilds the columns from the store.
func (m *Model) refresh() {
	board, err := m.planner.Board(m.opts.UpcomingDays)
	if err != nil {
		m.err = err
		return
	}
	m.board = board
	m.columns[colOverdue].SetReviews(board.Overdue, board.Today)
	m.columns[colToday].SetReviews(board.DueToday, board.Today)
	m.columns[colUpcoming].SetReviews(board.Upcoming, board.Today)
	m.columns[colDone].SetReviews(board.Done, board.Today)
	for i := range m.columns {
		m.columns[i].SetFocused(i == m.focus)
	}

	if res, err := m.planner.Validate(); err == nil {
		m.validity = res
	}
}

func (m *Model) resize() {
	colWidth := (m.width-4)/numColumns - 4
	if colWidth < 20 {
		colWidth = 20
	}
	colHeight := m.height - 10
	if colHeight < 5 {
		colHeight = 5
	}
	for i := range m.columns {
		m.columns[i].SetSize(colWidth, colHeight)
	}
}

func (m Model) selected() (models.Review, bool) {
	return m.columns[m.focus].Selected()
}
