package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/planner/internal/model"
)

const sidebarWidth = 24

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	taskList := m.renderTaskList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, taskList)

	if m.mode == ModeAddTask || m.mode == ModeAddList {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderSidebar() string {
	var s strings.Builder
	divider := lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-5))

	s.WriteString(HeaderStyle.Render("Planner") + "\n")
	s.WriteString(HelpStyle.Render(m.user.Username) + "\n")
	s.WriteString(divider + "\n\n")

	total := 0
	for _, l := range m.lists {
		total += l.TaskCount
	}

	rows := make([]string, 0, len(m.lists)+1)
	rows = append(rows, fmt.Sprintf("%-12s %3d", "All tasks", total))
	for _, l := range m.lists {
		rows = append(rows, fmt.Sprintf("%-12s %3d", truncate(l.Name, 12), l.TaskCount))
	}

	for i, row := range rows {
		cursor := "  "
		style := ListItemStyle
		if i == m.listCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ListItemSelectedStyle
			}
		}
		s.WriteString(style.Render(cursor+row) + "\n")
	}

	s.WriteString("\n" + divider + "\n")
	s.WriteString(HelpStyle.Render("p new list"))

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s.String())
}

func (m Model) renderTaskList() string {
	width := m.width - sidebarWidth - 2
	var s strings.Builder

	name := "All tasks"
	if l := m.currentList(); l != nil {
		name = l.Name
	}

	pending := 0
	for _, t := range m.tasks {
		if !t.IsCompleted {
			pending++
		}
	}
	header := fmt.Sprintf("%s (%d pending)", name, pending)
	if m.filterText != "" {
		header += "  /" + m.filterText
	}
	s.WriteString(HeaderStyle.Render(header) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n")

	if len(m.tasks) == 0 {
		if m.filterText != "" {
			s.WriteString(HelpStyle.Render("  No matching tasks. Esc clears the filter."))
		} else {
			s.WriteString(HelpStyle.Render("  No tasks. Press 'a' to add one."))
		}
	}

	now := m.now()
	titleWidth := max(width-40, 10)
	for i, t := range m.tasks {
		s.WriteString(m.renderTask(i, t, titleWidth, now) + "\n")
	}

	return TaskListStyle.Width(width).Height(m.height - 2).Render(s.String())
}

func (m Model) renderTask(i int, t model.Task, titleWidth int, now time.Time) string {
	cursor := "  "
	style := TaskItemStyle
	if i == m.taskCursor && m.pane == PaneTaskList {
		cursor = "❯ "
		style = TaskItemSelectedStyle
	}

	prefix := style.Render(cursor + "[ ]")
	if t.IsCompleted {
		style = TaskDoneStyle
		prefix = DoneIconStyle.Render(cursor + "[x]")
	}

	line := prefix + style.Render(fmt.Sprintf(" %-*s ", titleWidth, truncate(t.Title, titleWidth)))
	line += FormatPriority(t.Priority)

	if t.DueDate != nil {
		due := t.DueDate.Format("Jan 2")
		if t.IsOverdue(now) {
			line += " " + OverdueStyle.Render(due)
		} else {
			line += " " + DueStyle.Render(due)
		}
	}
	if m.currentList() == nil {
		line += " " + HelpStyle.Render(truncate(t.ListName, 12))
	}
	for _, tag := range t.Tags {
		line += " " + TagStyle.Render("#"+tag.Name)
	}
	return line
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeFilter {
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + fmt.Sprintf("  [%d]", len(m.tasks)))
	}

	help := "/:search  a:add  x:done  d:del  1-4:priority  o:order  ?:help  q:quit"
	switch {
	case m.err != nil:
		help = ErrorStyle.Render("Error: " + m.err.Error())
	case m.filterText != "":
		help = fmt.Sprintf("/%s  [%d matches]  Esc:clear", m.filterText, len(m.tasks))
	case m.message != "":
		help = m.message
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "New List"
	if m.mode == ModeAddTask {
		title = "Add Task"
		if l := m.currentList(); l != nil {
			title = fmt.Sprintf("Add Task to: %s", l.Name)
		}
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  h/l    Switch pane      │
│  Tab    Switch pane      │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add task        │
│  x/Space Toggle done     │
│  d       Delete          │
│  p       New list        │
│  1-4     Set priority    │
│  o       Toggle order    │
│                          │
│  Search                  │
│  ──────                  │
│  /       Filter tasks    │
│  Esc     Clear filter    │
│  r       Refresh         │
│                          │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
