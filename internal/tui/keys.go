package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	PrevDay        key.Binding
	NextDay        key.Binding
	SwitchList     key.Binding
	AddPlan        key.Binding
	AddAchievement key.Binding
	EditNotes      key.Binding
	Complete       key.Binding
	Delete         key.Binding
	RatingUp       key.Binding
	RatingDown     key.Binding
	Overview       key.Binding
	Reload         key.Binding
	Help           key.Binding
	Quit           key.Binding

	Submit key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevDay:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		NextDay:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		SwitchList:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "plans/achievements")),
		AddPlan:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add plan")),
		AddAchievement: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add achievement")),
		EditNotes:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
		Complete:       key.NewBinding(key.WithKeys("c", "x"), key.WithHelp("c", "complete")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		RatingUp:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "rating up")),
		RatingDown:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "rating down")),
		Overview:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overview")),
		Reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.AddPlan, k.Complete, k.Overview, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.SwitchList},
		{k.AddPlan, k.AddAchievement, k.EditNotes, k.Complete, k.Delete},
		{k.RatingUp, k.RatingDown, k.Overview, k.Reload, k.Help, k.Quit},
	}
}
