package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Classify     key.Binding
	Clear        key.Binding
	NextExample  key.Binding
	PrevExample  key.Binding
	ClearHistory key.Binding
	ToggleFocus  key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Classify:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "classify")),
		Clear:        key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		NextExample:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next example")),
		PrevExample:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev example")),
		ClearHistory: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
		ToggleFocus:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "focus input/history")),
		ScrollUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll history")),
		ScrollDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll history")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Classify, k.Clear, k.NextExample, k.ToggleFocus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Classify, k.Clear, k.ClearHistory},
		{k.NextExample, k.PrevExample},
		{k.ToggleFocus, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
