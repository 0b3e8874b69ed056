package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
	"github.com/existflow/planner/internal/planner"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTaskList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddList
	ModeFilter
	ModeHelp
)

// Model is the main TUI model. The sidebar's first row is "All tasks";
// the rest are the user's lists.
type Model struct {
	svc  *planner.Service
	user model.User
	now  func() time.Time

	lists []model.List
	tasks []model.Task

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	listCursor int
	taskCursor int
	order      planner.Order

	// Input
	input textinput.Model

	filterText string
	message    string
	err        error
}

// NewModel creates a new TUI model browsing user's data
func NewModel(svc *planner.Service, user model.User) Model {
	logger.Info("Initializing TUI model", logger.F("user", user.ID))

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 255
	ti.Width = 50

	m := Model{
		svc:   svc,
		user:  user,
		now:   time.Now,
		pane:  PaneTaskList,
		mode:  ModeNormal,
		input: ti,
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("lists", len(m.lists)),
		logger.F("tasks", len(m.tasks)))
	return m
}

func (m *Model) loadData() {
	ctx := context.Background()

	lists, err := m.svc.Lists(ctx, m.user.ID)
	if err != nil {
		m.fail(err)
		return
	}
	m.lists = lists
	if m.listCursor > len(m.lists) {
		m.listCursor = 0
	}

	q := planner.Query{Q: m.filterText, Order: m.order}
	if l := m.currentList(); l != nil {
		q.ListID = l.ID
	}
	tasks, err := m.svc.FilterTasks(ctx, m.user.ID, q)
	if err != nil {
		m.fail(err)
		return
	}
	m.tasks = tasks
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
	m.err = nil
}

func (m *Model) fail(err error) {
	logger.Error("TUI operation failed", logger.F("error", err))
	m.err = err
	m.message = ""
}

// currentList returns the selected list, or nil for "All tasks"
func (m *Model) currentList() *model.List {
	if m.listCursor > 0 && m.listCursor <= len(m.lists) {
		return &m.lists[m.listCursor-1]
	}
	return nil
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}
