// Package statusbar provides status bar UI components.
package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// HelpZone is the zone id of the help button.
const HelpZone = "statusbar-help"

// Model is a status bar model.
type Model struct {
	common common.Common
	key    string
	value  string
	info   string
	extra  string
}

// New creates a new status bar component.
func New(c common.Common) *Model {
	s := &Model{
		common: c,
	}
	return s
}

// SetSize implements common.Component.
func (s *Model) SetSize(width, height int) {
	s.common.Width = width
	s.common.Height = height
}

// SetStatus sets the status bar status. Empty values clear their section.
func (s *Model) SetStatus(key, value, info, extra string) {
	s.key = key
	s.value = value
	s.info = info
	s.extra = extra
}

// Init implements tea.Model.
func (s *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
	}
	return s, nil
}

// View implements tea.Model.
func (s *Model) View() string {
	st := s.common.Styles
	w := lipgloss.Width
	help := s.common.Zone.Mark(
		HelpZone,
		st.StatusBarHelp.Render("? Help"),
	)
	key := st.StatusBarKey.Render(s.key)
	info := ""
	if s.info != "" {
		info = st.StatusBarInfo.Render(s.info)
	}
	extra := ""
	if s.extra != "" {
		extra = st.StatusBarExtra.Render(s.extra)
	}
	maxWidth := s.common.Width - w(key) - w(info) - w(extra) - w(help)
	v := common.TruncateString(s.value, maxWidth-st.StatusBarValue.GetHorizontalFrameSize())
	value := st.StatusBarValue.
		Width(maxWidth).
		Render(v)

	return lipgloss.NewStyle().MaxWidth(s.common.Width).
		Render(
			lipgloss.JoinHorizontal(lipgloss.Top,
				key,
				value,
				info,
				extra,
				help,
			),
		)
}
