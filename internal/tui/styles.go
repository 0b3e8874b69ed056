package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette based on TUI design
var (
	// Priority colors
	PriorityUrgent = lipgloss.Color("#FF6B6B") // P1 - Red
	PriorityHigh   = lipgloss.Color("#FFB347") // P2 - Orange
	PriorityMedium = lipgloss.Color("#FFE66D") // P3 - Yellow
	PriorityLow    = lipgloss.Color("#4ECDC4") // P4 - Blue

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Overdue   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(20).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Task list
	TaskListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// List item
	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ListItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	DoneIconStyle = lipgloss.NewStyle().
			Foreground(Completed).
			Padding(0, 1)

	// Priority badges
	PriorityP1Style = lipgloss.NewStyle().Foreground(PriorityUrgent).Bold(true)
	PriorityP2Style = lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true)
	PriorityP3Style = lipgloss.NewStyle().Foreground(PriorityMedium)
	PriorityP4Style = lipgloss.NewStyle().Foreground(PriorityLow)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Tags and due dates
	TagStyle     = lipgloss.NewStyle().Foreground(Secondary)
	DueStyle     = lipgloss.NewStyle().Foreground(TextMuted)
	OverdueStyle = lipgloss.NewStyle().Foreground(Overdue).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Overdue)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(priority int) lipgloss.Style {
	switch priority {
	case 1:
		return PriorityP1Style
	case 2:
		return PriorityP2Style
	case 3:
		return PriorityP3Style
	default:
		return PriorityP4Style
	}
}

// FormatPriority returns a formatted priority string
func FormatPriority(priority int) string {
	if priority < 1 || priority > 4 {
		priority = 4
	}
	return GetPriorityStyle(priority).Render(fmt.Sprintf("P%d", priority))
}
