package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planner/internal/planner"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeAddList:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneTaskList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.Priority):
		m.handlePriority(int(msg.String()[0] - '0'))

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddTask, "Task title, #tags...")

	case key.Matches(msg, keys.NewList):
		return m.startInput(ModeAddList, "Enter list name...")

	case key.Matches(msg, keys.Done):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.Filter):
		m.mode = ModeFilter
		m.input.SetValue(m.filterText)
		m.input.Placeholder = "Search title, description, list, tag..."
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.taskCursor = 0
			m.loadData()
			m.message = "Filter cleared"
		}

	case key.Matches(msg, keys.Order):
		if m.order == planner.OrderDefault {
			m.order = planner.OrderByList
			m.message = "Ordered by list"
		} else {
			m.order = planner.OrderDefault
			m.message = "Ordered by priority and due date"
		}
		m.loadData()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Refresh):
		m.loadData()
		if m.err == nil {
			m.message = "Refreshed"
		}
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.listCursor > 0 {
			m.listCursor--
			m.taskCursor = 0
			m.loadData()
		}
		return
	}
	if m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.listCursor < len(m.lists) {
			m.listCursor++
			m.taskCursor = 0
			m.loadData()
		}
		return
	}
	if m.taskCursor < len(m.tasks)-1 {
		m.taskCursor++
	}
}

func (m *Model) handlePriority(p int) {
	task := m.currentTask()
	if m.pane != PaneTaskList || task == nil {
		return
	}

	tagIDs := make([]int64, len(task.Tags))
	for i, tag := range task.Tags {
		tagIDs[i] = tag.ID
	}
	_, err := m.svc.UpdateTask(context.Background(), m.user.ID, task.ID, planner.TaskInput{
		Title:          task.Title,
		Description:    task.Description,
		DueDate:        task.DueDate,
		IsCompleted:    task.IsCompleted,
		Priority:       p,
		ListID:         task.ListID,
		SelectedTagIDs: tagIDs,
		Collaborators:  task.Collaborators,
	})
	if err != nil {
		m.fail(err)
		return
	}
	m.loadData()
	m.message = fmt.Sprintf("Priority set to P%d", p)
}

func (m *Model) handleToggleDone() {
	task := m.currentTask()
	if m.pane != PaneTaskList || task == nil {
		return
	}

	done, err := m.svc.ToggleTask(context.Background(), m.user.ID, task.ID, nil)
	if err != nil {
		m.fail(err)
		return
	}
	title := task.Title
	m.loadData()
	if done {
		m.message = fmt.Sprintf("Completed: %s", title)
	} else {
		m.message = fmt.Sprintf("Reopened: %s", title)
	}
}

func (m *Model) handleDelete() {
	task := m.currentTask()
	if m.pane != PaneTaskList || task == nil {
		return
	}

	title := task.Title
	if err := m.svc.DeleteTask(context.Background(), m.user.ID, task.ID); err != nil {
		m.fail(err)
		return
	}
	m.loadData()
	m.message = fmt.Sprintf("Deleted: %s", title)
}

func (m Model) startInput(mode Mode, placeholder string) (tea.Model, tea.Cmd) {
	if mode == ModeAddTask && m.currentList() == nil {
		m.message = "Select a list in the sidebar first"
		return m, nil
	}
	m.mode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
	return m, textinput.Blink
}

// updateInput handles the add task / add list modal
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}

		ctx := context.Background()
		switch mode {
		case ModeAddTask:
			title, tags := splitTitle(value)
			l := m.currentList()
			t, err := m.svc.CreateTask(ctx, m.user.ID, planner.TaskInput{
				Title:       title,
				ListID:      l.ID,
				NewTagNames: tags,
			})
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.loadData()
			m.message = fmt.Sprintf("Added: %s", t.Title)

		case ModeAddList:
			l, err := m.svc.CreateList(ctx, m.user.ID, value)
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.loadData()
			for i := range m.lists {
				if m.lists[i].ID == l.ID {
					m.listCursor = i + 1
				}
			}
			m.taskCursor = 0
			m.loadData()
			m.message = fmt.Sprintf("Created list: %s", l.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateFilter re-runs the search as the query is typed
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		m.filterText = ""
		m.taskCursor = 0
		m.loadData()
		return m, nil

	case tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()
		m.pane = PaneTaskList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := strings.TrimSpace(m.input.Value()); text != m.filterText {
		m.filterText = text
		m.taskCursor = 0
		m.loadData()
	}
	return m, cmd
}
