package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap is a map of key bindings for the UI.
type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	Select key.Binding
	Rename key.Binding
	Remove key.Binding
	Invite key.Binding
	Copy   key.Binding
	Upload key.Binding
	Browse key.Binding
	Active key.Binding

	Yes key.Binding
	No  key.Binding
}

// DefaultKeyMap returns the default key map.
func DefaultKeyMap() *KeyMap {
	km := new(KeyMap)

	km.Quit = key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)

	km.Back = key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	)

	km.Help = key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	)

	km.Refresh = key.NewBinding(
		key.WithKeys("R", "ctrl+r"),
		key.WithHelp("R", "refresh"),
	)

	km.Up = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)

	km.Down = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)

	km.NextPage = key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/n", "next page"),
	)

	km.PrevPage = key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←/p", "prev page"),
	)

	km.Select = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	)

	km.Rename = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	)

	km.Remove = key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "remove"),
	)

	km.Invite = key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add a member"),
	)

	km.Copy = key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy link"),
	)

	km.Upload = key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	)

	km.Browse = key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "browse"),
	)

	km.Active = key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "set active"),
	)

	km.Yes = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	)

	km.No = key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	)

	return km
}
