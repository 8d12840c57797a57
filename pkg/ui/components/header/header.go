package header

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// Header shows the app title and the server message banner.
type Header struct {
	common  common.Common
	text    string
	message string
}

// New returns a new Header.
func New(c common.Common, text string) *Header {
	h := &Header{
		common: c,
		text:   text,
	}
	return h
}

// SetSize implements common.Component.
func (h *Header) SetSize(width, height int) {
	h.common.Width = width
	h.common.Height = height
}

// SetText sets the title.
func (h *Header) SetText(text string) {
	h.text = text
}

// SetMessage sets the server message banner. Messages are markdown.
func (h *Header) SetMessage(msg string) {
	h.message = strings.TrimSpace(msg)
}

// Message returns the server message.
func (h *Header) Message() string {
	return h.message
}

// Init implements tea.Model.
func (h *Header) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (h *Header) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return h, nil
}

// View implements tea.Model.
func (h *Header) View() string {
	s := h.common.Styles.Header.Copy().Width(h.common.Width)
	title := s.Render(strings.TrimSpace(h.text))
	if h.message == "" {
		return title
	}
	banner, err := common.RenderMarkdown(h.message, h.common.Width)
	if err != nil {
		banner = h.message
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		h.common.Styles.Banner.Render(strings.TrimSpace(banner)),
	)
}
