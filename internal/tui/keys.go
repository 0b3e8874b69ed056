package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Add      key.Binding
	Done     key.Binding
	Delete   key.Binding
	NewList  key.Binding
	Filter   key.Binding
	Order    key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Refresh  key.Binding
	Priority key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left pane")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right pane")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Done:     key.NewBinding(key.WithKeys("x", " ", "enter"), key.WithHelp("x/space", "toggle done")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	NewList:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new list")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle order")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
	Refresh:  key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("r", "refresh")),
	Priority: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "set priority")),
}
