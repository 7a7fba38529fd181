package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play      key.Binding
	Restart   key.Binding
	Loop      key.Binding
	Faster    key.Binding
	Slower    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Snap      key.Binding
	Policy    key.Binding
	Add       key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	Next      key.Binding
	Prev      key.Binding
	Multi     key.Binding
	ExtendN   key.Binding
	ExtendP   key.Binding
	Earlier   key.Binding
	Later     key.Binding
	NudgeL    key.Binding
	NudgeR    key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	ScrollL   key.Binding
	ScrollR   key.Binding
	Edit      key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Loop:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loop")),
		Faster:    key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "faster")),
		Slower:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		ZoomIn:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "zoom out")),
		Snap:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "snap")),
		Policy:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "drag write-back")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Duplicate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Next:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next")),
		Prev:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "prev")),
		Multi:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "multi-select")),
		ExtendN:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "extend down")),
		ExtendP:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "extend up")),
		Earlier:   key.NewBinding(key.WithKeys("<", "ctrl+up"), key.WithHelp("<", "move up in order")),
		Later:     key.NewBinding(key.WithKeys(">", "ctrl+down"), key.WithHelp(">", "move down in order")),
		NudgeL:    key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "nudge")),
		NudgeR:    key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "nudge")),
		Grow:      key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "longer")),
		Shrink:    key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("⇧↓", "shorter")),
		ScrollL:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll")),
		ScrollR:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll")),
		Edit:      key.NewBinding(key.WithKeys("="), key.WithHelp("=", "field=value")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Add, k.Delete, k.Edit, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Restart, k.Loop, k.Faster, k.Slower},
		{k.ZoomIn, k.ZoomOut, k.Snap, k.Policy, k.ScrollL, k.ScrollR},
		{k.Add, k.Delete, k.Duplicate, k.Next, k.Prev, k.Multi, k.ExtendN, k.ExtendP, k.Earlier, k.Later},
		{k.NudgeL, k.NudgeR, k.Grow, k.Shrink, k.Edit, k.Save, k.Quit},
	}
}
