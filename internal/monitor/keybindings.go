package monitor

import "github.com/charmbracelet/bubbles/key"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyScrollUp   = "up"
	KeyScrollUpK  = "k"
	KeyScrollDown = "down"
	KeyScrollDnJ  = "j"
	KeyHome       = "home"
	KeyHomeG      = "g"
	KeyEnd        = "end"
	KeyEndG       = "G"
	KeyToggleHelp = "?"
	KeyClose      = "esc"
)

// KeyMap holds the dashboard key bindings. It satisfies help.KeyMap so the
// footer and the help overlay render from the same source.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Home    key.Binding
	End     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(KeyScrollUp, KeyScrollUpK),
			key.WithHelp("↑/k", "previous cores"),
		),
		Down: key.NewBinding(
			key.WithKeys(KeyScrollDown, KeyScrollDnJ),
			key.WithHelp("↓/j", "next cores"),
		),
		Home: key.NewBinding(
			key.WithKeys(KeyHome, KeyHomeG),
			key.WithHelp("home/g", "first cores"),
		),
		End: key.NewBinding(
			key.WithKeys(KeyEnd, KeyEndG),
			key.WithHelp("end/G", "last cores"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(KeyRefresh),
			key.WithHelp("r", "refresh now"),
		),
		Help: key.NewBinding(
			key.WithKeys(KeyToggleHelp),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys(KeyClose),
			key.WithHelp("esc", "close help"),
		),
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyQuitAlt),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Up, k.Down, k.Refresh, k.Help}
}

// FullHelp returns the bindings shown in the help overlay, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Refresh, k.Help, k.Close, k.Quit},
	}
}

// keyPress adapts a decoded key name to key.Matches.
type keyPress string

func (k keyPress) String() string { return string(k) }

// action is what a key press asks the loop to do.
type action int

const (
	actionNone action = iota
	actionQuit
	actionScroll
	actionRefresh
	actionToggleHelp
	actionCloseHelp
)

// resolve maps a key name to an action. For scroll actions the direction is
// also returned.
func (k KeyMap) resolve(name string) (action, Direction) {
	press := keyPress(name)
	switch {
	case key.Matches(press, k.Quit):
		return actionQuit, 0
	case key.Matches(press, k.Help):
		return actionToggleHelp, 0
	case key.Matches(press, k.Close):
		return actionCloseHelp, 0
	case key.Matches(press, k.Refresh):
		return actionRefresh, 0
	case key.Matches(press, k.Up):
		return actionScroll, ScrollUp
	case key.Matches(press, k.Down):
		return actionScroll, ScrollDown
	case key.Matches(press, k.Home):
		return actionScroll, ScrollHome
	case key.Matches(press, k.End):
		return actionScroll, ScrollEnd
	}
	return actionNone, 0
}
