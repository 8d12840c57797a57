// Package bots lists a team's uploaded bots.
package bots

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
	"github.com/upac/pokerbots/pkg/upload"
)

// Client fetches a team's bots.
type Client interface {
	TeamBots(ctx context.Context, teamID int64) ([]api.Bot, error)
}

// LoadedMsg carries a team's bots.
type LoadedMsg struct {
	TeamID int64
	Bots   []api.Bot
	Err    error
}

// Bots is the bots page.
type Bots struct {
	common  common.Common
	client  Client
	manager *team.Manager
	upload  *dropzone.Dropzone
	table   table.Model
	teamID  *int64
	bots    []api.Bot
	loading bool
	err     error
}

// New returns a new bots page.
func New(c common.Common, client Client, m *team.Manager, up *dropzone.Dropzone) *Bots {
	st := c.Styles
	ts := table.DefaultStyles()
	ts.Header = st.TableHead
	ts.Cell = st.TableCell
	ts.Selected = st.TableFocus
	t := table.New(
		table.WithColumns(columns(c.Width)),
		table.WithFocused(true),
		table.WithStyles(ts),
	)
	b := &Bots{
		common:  c,
		client:  client,
		manager: m,
		upload:  up,
		table:   t,
	}
	b.upload.SetReadonly(c.Readonly())
	return b
}

func columns(width int) []table.Column {
	name := width - 2 - 12 - 18 - 16 - 8
	if name < 12 {
		name = 12
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Name", Width: name},
		{Title: "Status", Width: 18},
		{Title: "Uploaded by", Width: 16},
		{Title: "Uploaded", Width: 12},
	}
}

// SetSize implements common.Component.
func (b *Bots) SetSize(width, height int) {
	b.common.SetSize(width, height)
	b.table.SetColumns(columns(width))
	b.table.SetWidth(width)
	h := height - lipgloss.Height(b.upload.View()) - 1
	if h < 3 {
		h = 3
	}
	b.table.SetHeight(h)
	b.upload.SetSize(width, height)
}

// TabName implements common.Page.
func (b *Bots) TabName() string {
	return "Bots"
}

// StatusBarValue implements common.Page.
func (b *Bots) StatusBarValue() string {
	if bot := b.Selected(); bot != nil {
		return bot.Name
	}
	return ""
}

// StatusBarInfo implements common.Page.
func (b *Bots) StatusBarInfo() string {
	if len(b.bots) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", b.table.Cursor()+1, len(b.bots))
}

// Capturing implements common.Capturer.
func (b *Bots) Capturing() bool {
	return b.upload.Focused()
}

// ShortHelp implements help.KeyMap.
func (b *Bots) ShortHelp() []key.Binding {
	km := b.common.KeyMap
	bs := []key.Binding{km.Up, km.Down}
	if !b.common.Readonly() {
		bs = append(bs, km.Active, km.Remove, km.Upload)
	}
	return bs
}

// FullHelp implements help.KeyMap.
func (b *Bots) FullHelp() [][]key.Binding {
	km := b.common.KeyMap
	bs := [][]key.Binding{{km.Up, km.Down, km.Refresh}}
	if !b.common.Readonly() {
		bs = append(bs, []key.Binding{km.Active, km.Remove}, []key.Binding{km.Upload, km.Browse})
	}
	return bs
}

// Bots returns the listed bots.
func (b *Bots) Bots() []api.Bot {
	return b.bots
}

// Selected returns the bot under the cursor.
func (b *Bots) Selected() *api.Bot {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.bots) {
		return nil
	}
	return &b.bots[i]
}

func (b *Bots) team() *api.Team {
	if s := b.common.Store(); s != nil {
		return s.Team().Value
	}
	return nil
}

// Init implements tea.Model.
func (b *Bots) Init() tea.Cmd {
	return b.fetch()
}

func (b *Bots) fetch() tea.Cmd {
	t := b.team()
	if t == nil || b.client == nil {
		b.teamID = nil
		b.bots = nil
		b.table.SetRows(nil)
		return nil
	}
	id := t.ID
	b.teamID = &id
	b.loading = true
	ctx := b.common.Context()
	return func() tea.Msg {
		bots, err := b.client.TeamBots(ctx, id)
		return LoadedMsg{TeamID: id, Bots: bots, Err: err}
	}
}

// Update implements tea.Model.
func (b *Bots) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if b.teamID == nil || msg.TeamID != *b.teamID {
			return b, nil
		}
		b.loading = false
		b.err = msg.Err
		if msg.Err != nil {
			b.common.Logger.Debug("list bots", "team", msg.TeamID, "err", msg.Err)
			return b, nil
		}
		b.bots = msg.Bots
		b.table.SetRows(b.rows())
		return b, nil
	case common.StoreMsg:
		b.upload.SetReadonly(b.common.Readonly())
		// Events coalesce, so any of them may announce the team.
		if msg.State != store.Ready {
			return b, nil
		}
		if t := b.team(); t == nil || b.teamID == nil || t.ID != *b.teamID {
			return b, b.fetch()
		}
		// Same team: the active bot may have changed.
		b.table.SetRows(b.rows())
		return b, nil
	case common.ResultMsg:
		switch msg.Action {
		case team.SetActiveBot, team.DeleteBot:
			return b, b.fetch()
		}
		return b, nil
	case dropzone.DoneMsg:
		_, cmd := b.upload.Update(msg)
		if msg.Kind == upload.Bot && msg.Outcome.Err == nil {
			return b, tea.Batch(cmd, b.fetch())
		}
		return b, cmd
	case tea.KeyMsg:
		if b.upload.Focused() {
			_, cmd := b.upload.Update(msg)
			return b, cmd
		}
		return b, b.handleKey(msg)
	}
	_, cmd := b.upload.Update(msg)
	return b, cmd
}

func (b *Bots) handleKey(msg tea.KeyMsg) tea.Cmd {
	km := b.common.KeyMap
	readonly := b.common.Readonly()
	switch {
	case key.Matches(msg, km.Refresh):
		return b.fetch()
	case key.Matches(msg, km.Upload):
		if readonly {
			return nil
		}
		return b.upload.Focus()
	case key.Matches(msg, km.Active):
		bot := b.Selected()
		if readonly || bot == nil {
			return nil
		}
		id := bot.ID
		ctx := b.common.Context()
		return common.MutateCmd(func() team.Result {
			return b.manager.SetActiveBot(ctx, id)
		})
	case key.Matches(msg, km.Remove):
		bot := b.Selected()
		if readonly || bot == nil {
			return nil
		}
		id := bot.ID
		ctx := b.common.Context()
		return common.MutateCmd(func() team.Result {
			return b.manager.DeleteBot(ctx, id)
		})
	}
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return cmd
}

func (b *Bots) rows() []table.Row {
	var active *int64
	if t := b.team(); t != nil {
		active = t.ActiveBot
	}
	st := b.common.Styles
	rows := make([]table.Row, 0, len(b.bots))
	for i := range b.bots {
		bot := &b.bots[i]
		mark := ""
		if active != nil && *active == bot.ID {
			mark = st.ActiveBot.Value()
		}
		rows = append(rows, table.Row{
			mark,
			bot.Name,
			bot.BuildStatus.String(),
			bot.UploadedBy,
			common.Ago(bot.Uploaded()),
		})
	}
	return rows
}

func (b *Bots) statusStyle(s api.BuildStatus) lipgloss.Style {
	st := b.common.Styles
	switch {
	case s.Failed():
		return st.BuildFailed
	case s == api.TestGameSucceeded:
		return st.BuildOK
	}
	return st.BuildPending
}

// View implements tea.Model.
func (b *Bots) View() string {
	st := b.common.Styles
	var body string
	switch {
	case b.err != nil && len(b.bots) == 0:
		body = st.GameError.Render("Error loading bots: " + api.Message(b.err, b.err.Error()))
	case b.loading && len(b.bots) == 0:
		body = st.NoContent.Render("Loading…")
	case len(b.bots) == 0:
		body = st.NoContent.Render("No bots uploaded yet.")
	default:
		body = b.table.View()
		if bot := b.Selected(); bot != nil {
			body = lipgloss.JoinVertical(lipgloss.Left, body,
				b.statusStyle(bot.BuildStatus).Render(bot.Name+": "+bot.BuildStatus.String()))
		}
	}
	parts := []string{}
	if v := b.upload.View(); v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, body)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
