package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Enter     key.Binding
	AddTask   key.Binding
	AddGoal   key.Binding
	Edit      key.Binding
	Done      key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	ShowAll   key.Binding
	HideAll   key.Binding
	Reset     key.Binding
	Dismiss   key.Binding
	Login     key.Binding
	Signup    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Logout    key.Binding
	Refresh   key.Binding
	Confirm   key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous page")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/save")),
	AddTask:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	AddGoal:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "add goal")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "show/hide person")),
	ShowAll:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "show all")),
	HideAll:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide all")),
	Reset:     key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "send password reset")),
	Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Login:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "log in")),
	Signup:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "sign up")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Refresh:   key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh")),
	Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}
