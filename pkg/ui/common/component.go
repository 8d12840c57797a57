package common

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// Component represents a Bubble Tea model that implements a SetSize function.
type Component interface {
	tea.Model
	SetSize(width, height int)
}

// Page represents a tab of the UI.
type Page interface {
	Component
	help.KeyMap

	// TabName returns the name of the tab.
	TabName() string

	// StatusBarValue returns the status bar value component.
	StatusBarValue() string

	// StatusBarInfo returns the status bar info component.
	StatusBarInfo() string
}

// Capturer is implemented by pages that can take free text input. While
// capturing, the root model doesn't interpret keys.
type Capturer interface {
	Capturing() bool
}

// Blurrer is implemented by pages that hold pending input when they lose
// focus, such as when another tab is selected.
type Blurrer interface {
	Blur() tea.Cmd
}
