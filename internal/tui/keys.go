package tui

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Quit      key.Binding
	SignOut   key.Binding
	UpDown    key.Binding
	LeftRight key.Binding
	Edit      key.Binding
	Add       key.Binding
	Delete    key.Binding
	Search    key.Binding
	Filter    key.Binding
	Detail    key.Binding
	View      key.Binding
	Month     key.Binding
	Report    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SignOut:   key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "sign out")),
		UpDown:    key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "row")),
		LeftRight: key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("h/l", "column")),
		Edit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		Detail:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "details")),
		View:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calendar")),
		Month:     key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "month")),
		Report:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) tableHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.LeftRight, k.Edit, k.Add, k.Delete, k.Search, k.Filter, k.Detail, k.View, k.Quit}
}

func (k keyMap) calendarHelp() []key.Binding {
	return []key.Binding{k.Month, k.View, k.Report, k.Quit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.Cancel, k.Quit}
}
