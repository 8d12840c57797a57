// Package onboard lets a user without a team create one or join one with
// an invite.
package onboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
)

var choices = []team.Action{team.CreateTeam, team.JoinTeam}

// Onboard is the page shown to users that aren't on a team.
type Onboard struct {
	common  common.Common
	manager *team.Manager
	input   textinput.Model
	cursor  int
	editing bool
}

// New returns a new Onboard page.
func New(c common.Common, m *team.Manager) *Onboard {
	ti := textinput.New()
	ti.CharLimit = 256
	return &Onboard{
		common:  c,
		manager: m,
		input:   ti,
	}
}

// SetSize implements common.Component.
func (o *Onboard) SetSize(width, height int) {
	o.common.SetSize(width, height)
	o.input.Width = width - 4
}

// TabName implements common.Page.
func (o *Onboard) TabName() string {
	return "Team"
}

// StatusBarValue implements common.Page.
func (o *Onboard) StatusBarValue() string {
	return "not on a team"
}

// StatusBarInfo implements common.Page.
func (o *Onboard) StatusBarInfo() string {
	return ""
}

// Capturing implements common.Capturer.
func (o *Onboard) Capturing() bool {
	return o.editing
}

// Choice returns the highlighted action.
func (o *Onboard) Choice() team.Action {
	return choices[o.cursor]
}

// ShortHelp implements help.KeyMap.
func (o *Onboard) ShortHelp() []key.Binding {
	km := o.common.KeyMap
	if o.editing {
		return []key.Binding{km.Select, km.Back}
	}
	return []key.Binding{km.Up, km.Down, km.Select}
}

// FullHelp implements help.KeyMap.
func (o *Onboard) FullHelp() [][]key.Binding {
	return [][]key.Binding{o.ShortHelp()}
}

// Init implements tea.Model.
func (o *Onboard) Init() tea.Cmd {
	o.cursor = 0
	o.editing = false
	return nil
}

// Update implements tea.Model.
func (o *Onboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km := o.common.KeyMap
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if o.editing {
			switch {
			case key.Matches(msg, km.Select):
				return o, o.submit()
			case key.Matches(msg, km.Back):
				o.editing = false
				o.input.Blur()
				return o, nil
			}
			var cmd tea.Cmd
			o.input, cmd = o.input.Update(msg)
			return o, cmd
		}
		switch {
		case key.Matches(msg, km.Up):
			o.cursor = (o.cursor - 1 + len(choices)) % len(choices)
		case key.Matches(msg, km.Down):
			o.cursor = (o.cursor + 1) % len(choices)
		case key.Matches(msg, km.Select):
			o.editing = true
			o.input.Reset()
			if o.Choice() == team.CreateTeam {
				o.input.Placeholder = "team name"
			} else {
				o.input.Placeholder = "invite link or code"
			}
			return o, o.input.Focus()
		}
	}
	return o, nil
}

func (o *Onboard) submit() tea.Cmd {
	value := o.input.Value()
	action := o.Choice()
	o.editing = false
	o.input.Blur()
	ctx := o.common.Context()
	return common.MutateCmd(func() team.Result {
		if action == team.JoinTeam {
			return o.manager.JoinTeam(ctx, value)
		}
		return o.manager.CreateTeam(ctx, value)
	})
}

// View implements tea.Model.
func (o *Onboard) View() string {
	st := o.common.Styles
	rows := []string{st.NoContent.Copy().MarginLeft(0).Render("You are not on a team yet."), ""}
	for i, a := range choices {
		style := st.Button
		prefix := "  "
		if i == o.cursor {
			style = st.ButtonActive
			prefix = st.Selector.String()
		}
		rows = append(rows, prefix+style.Render(a.String()))
	}
	if o.editing {
		rows = append(rows, "", o.input.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
