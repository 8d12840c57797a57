// Package ui is the terminal interface of the platform: a team page, the
// team's bots and the games it played.
package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/confirm"
	"github.com/upac/pokerbots/pkg/ui/components/copy"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
	"github.com/upac/pokerbots/pkg/ui/components/footer"
	"github.com/upac/pokerbots/pkg/ui/components/header"
	"github.com/upac/pokerbots/pkg/ui/components/statusbar"
	"github.com/upac/pokerbots/pkg/ui/components/tabs"
	"github.com/upac/pokerbots/pkg/ui/components/toast"
	"github.com/upac/pokerbots/pkg/ui/pages/bots"
	"github.com/upac/pokerbots/pkg/ui/pages/games"
	"github.com/upac/pokerbots/pkg/ui/pages/onboard"
	"github.com/upac/pokerbots/pkg/ui/pages/teambar"
	"github.com/upac/pokerbots/pkg/upload"
)

// RefreshFailedText is shown when a refresh fails while a value is on
// display.
const RefreshFailedText = "Error refreshing team"

// Texts of the non-team states.
const (
	LoadingText   = "Loading…"
	NoTeamText    = "There is no team at this URL."
	LoggedOutText = "You are not logged in. Set api.session in the config or POKERBOTS_API_SESSION."
)

type sessionState int

const (
	loadingState sessionState = iota
	noTeamState
	loggedOutState
	onboardState
	errorState
	loadedState
)

var stateNames = map[sessionState]string{
	loadingState:   "loading",
	noTeamState:    "no team",
	loggedOutState: "logged out",
	onboardState:   "onboard",
	errorState:     "error",
	loadedState:    "loaded",
}

func (s sessionState) String() string {
	return stateNames[s]
}

type messageMsg string

// ErrNoStore is returned when the UI runs without a store in its context.
var ErrNoStore = errors.New("no store in context")

// UI is the main UI model.
type UI struct {
	common     common.Common
	store      *store.Store
	bridge     *confirm.Bridge
	manager    *team.Manager
	pages      []common.Page
	onboard    *onboard.Onboard
	activePage int
	state      sessionState
	header     *header.Header
	footer     *footer.Footer
	statusbar  *statusbar.Model
	tabs       *tabs.Tabs
	toast      *toast.Toast
	confirm    *confirm.Confirm
	error      error

	events      <-chan store.Event
	unsubscribe func()
}

// New returns a new UI model. The store and client are read from the
// common context.
func New(c common.Common) *UI {
	st := c.Store()
	client := c.Client()
	bridge := confirm.NewBridge()
	manager := team.NewManager(client, st, bridge)

	delay := upload.DefaultRefreshDelay
	if cfg := c.Config(); cfg != nil && cfg.Upload.RefreshDelay > 0 {
		delay = cfg.Upload.RefreshDelay.Std()
	}
	readonly := c.Readonly()
	pfpZone := upload.NewDropZone(readonly)
	botZone := upload.NewDropZone(readonly)
	pfp := dropzone.New(c, "Drop a team picture here (u)",
		upload.New(upload.Pfp, client, st, upload.WithRefreshDelay(delay), upload.WithDropZone(pfpZone)),
		pfpZone, ".png", ".jpg", ".jpeg", ".gif", ".webp")
	bot := dropzone.New(c, "Drop a bot archive here (u)",
		upload.New(upload.Bot, client, st, upload.WithRefreshDelay(delay), upload.WithDropZone(botZone)),
		botZone, ".zip")

	ui := &UI{
		common:  c,
		store:   st,
		bridge:  bridge,
		manager: manager,
		pages: []common.Page{
			teambar.New(c, manager, pfp),
			bots.New(c, client, manager, bot),
			games.New(c, client),
		},
		onboard:   onboard.New(c, manager),
		header:    header.New(c, "Pokerbots"),
		statusbar: statusbar.New(c),
		toast:     toast.New(c),
		confirm:   confirm.New(c, bridge),
	}
	names := make([]string, len(ui.pages))
	for i, p := range ui.pages {
		names[i] = p.TabName()
	}
	ui.tabs = tabs.New(c, names)
	ui.footer = footer.New(c, ui)
	ui.state = ui.computeState()
	ui.SetSize(c.Width, c.Height)
	return ui
}

func (ui *UI) getMargins() (wm, hm int) {
	wm = ui.common.Styles.App.GetHorizontalFrameSize()
	hm = ui.common.Styles.App.GetVerticalFrameSize() +
		lipgloss.Height(ui.header.View()) +
		1 + // tabs
		1 + // toast
		ui.common.Styles.StatusBar.GetHeight()
	if ui.footer != nil {
		hm += ui.footer.Height()
	}
	return
}

func (ui *UI) activeModel() common.Page {
	if ui.state == onboardState {
		return ui.onboard
	}
	return ui.pages[ui.activePage]
}

// ShortHelp implements help.KeyMap.
func (ui *UI) ShortHelp() []key.Binding {
	b := make([]key.Binding, 0)
	if ui.state == loadedState || ui.state == onboardState {
		b = append(b, ui.activeModel().ShortHelp()...)
	}
	b = append(b, ui.common.KeyMap.Refresh, ui.common.KeyMap.Quit)
	return b
}

// FullHelp implements help.KeyMap.
func (ui *UI) FullHelp() [][]key.Binding {
	b := make([][]key.Binding, 0)
	if ui.state == loadedState || ui.state == onboardState {
		b = append(b, ui.activeModel().FullHelp()...)
	}
	b = append(b, []key.Binding{
		ui.common.KeyMap.Refresh,
		ui.common.KeyMap.Help,
		ui.common.KeyMap.Quit,
	})
	return b
}

// SetSize implements common.Component.
func (ui *UI) SetSize(width, height int) {
	ui.common.SetSize(width, height)
	wm, hm := ui.getMargins()
	ui.header.SetSize(width-wm, height-hm)
	ui.footer.SetSize(width-wm, height-hm)
	ui.statusbar.SetSize(width-wm, height-hm)
	ui.tabs.SetSize(width-wm, height-hm)
	ui.toast.SetSize(width-wm, height-hm)
	ui.confirm.SetSize(width-wm, height-hm)
	ui.onboard.SetSize(width-wm, height-hm)
	for _, p := range ui.pages {
		p.SetSize(width-wm, height-hm)
	}
}

// Init implements tea.Model.
func (ui *UI) Init() tea.Cmd {
	if ui.store == nil {
		return common.ErrorCmd(ErrNoStore)
	}
	ui.events, ui.unsubscribe = ui.store.Subscribe()
	cmds := []tea.Cmd{
		common.WatchStoreCmd(ui.events),
		ui.confirm.Init(),
		ui.tabs.Init(),
		ui.onboard.Init(),
		ui.loadCmd(),
		ui.messageCmd(),
	}
	for _, p := range ui.pages {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

// loadCmd loads the store. Changes arrive through the subscription.
func (ui *UI) loadCmd() tea.Cmd {
	ctx := ui.common.Context()
	st := ui.store
	return func() tea.Msg {
		if err := st.Init(ctx); err != nil {
			ui.common.Logger.Debug("load", "err", err)
		}
		return nil
	}
}

func (ui *UI) refreshCmd() tea.Cmd {
	ctx := ui.common.Context()
	st := ui.store
	return func() tea.Msg {
		if err := st.RefreshUser(ctx); err != nil && !errors.Is(err, store.ErrStale) {
			ui.common.Logger.Debug("refresh", "err", err)
		}
		return nil
	}
}

func (ui *UI) messageCmd() tea.Cmd {
	client := ui.common.Client()
	if client == nil {
		return nil
	}
	ctx := ui.common.Context()
	return func() tea.Msg {
		msg, err := client.ServerMessage(ctx)
		if err != nil {
			ui.common.Logger.Debug("server message", "err", err)
			return nil
		}
		return messageMsg(msg)
	}
}

// computeState derives the view state from the store. A refetch keeps
// showing the previous value, even when it fails.
func (ui *UI) computeState() sessionState {
	if ui.error != nil {
		return errorState
	}
	st := ui.store
	if st == nil {
		return loadingState
	}
	t := st.Team()
	if st.SelectedTeamID() != nil {
		return teamState(t)
	}
	u := st.User()
	switch {
	case u.State == store.Failed && u.Value == nil:
		return errorState
	case u.Value == nil && !u.Settled():
		return loadingState
	case u.Value == nil:
		return loggedOutState
	}
	if s := teamState(t); s != noTeamState {
		return s
	}
	return onboardState
}

func teamState(t store.Snapshot[api.Team]) sessionState {
	switch {
	case t.State == store.Failed && t.Value == nil:
		return errorState
	case t.Value == nil && !t.Settled():
		return loadingState
	case t.Value == nil:
		return noTeamState
	}
	return loadedState
}

// storeErr returns the error of the failed slot.
func (ui *UI) storeErr() error {
	if ui.error != nil {
		return ui.error
	}
	if ui.store == nil {
		return nil
	}
	if t := ui.store.Team(); t.State == store.Failed && t.Value == nil {
		return t.Err
	}
	if u := ui.store.User(); u.State == store.Failed && u.Value == nil {
		return u.Err
	}
	return nil
}

func (ui *UI) capturing() bool {
	if ui.state != loadedState && ui.state != onboardState {
		return false
	}
	c, ok := ui.activeModel().(common.Capturer)
	return ok && c.Capturing()
}

// broadcast sends msg to every page.
func (ui *UI) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(ui.pages)+1)
	for i, p := range ui.pages {
		m, cmd := p.Update(msg)
		ui.pages[i] = m.(common.Page)
		cmds = append(cmds, cmd)
	}
	o, cmd := ui.onboard.Update(msg)
	ui.onboard = o.(*onboard.Onboard)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (ui *UI) updateActive(msg tea.Msg) tea.Cmd {
	if ui.state == onboardState {
		o, cmd := ui.onboard.Update(msg)
		ui.onboard = o.(*onboard.Onboard)
		return cmd
	}
	m, cmd := ui.pages[ui.activePage].Update(msg)
	ui.pages[ui.activePage] = m.(common.Page)
	return cmd
}

// Update implements tea.Model.
func (ui *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0)
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.SetSize(msg.Width, msg.Height)
		return ui, nil
	case common.StoreMsg:
		ui.state = ui.computeState()
		if msg.State == store.Failed && ui.state == loadedState {
			ui.common.Logger.Debug("refresh failed", "slot", msg.Slot, "err", msg.Err)
			_, cmd := ui.toast.Update(toast.ShowMsg{
				Level:   toast.Error,
				Message: api.Message(msg.Err, RefreshFailedText),
			})
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, ui.broadcast(msg), common.WatchStoreCmd(ui.events))
	case common.ErrorMsg:
		ui.error = msg
		ui.state = errorState
	case messageMsg:
		ui.header.SetMessage(string(msg))
		ui.SetSize(ui.common.Width, ui.common.Height)
	case confirm.RequestMsg, confirm.AnswerMsg:
		_, cmd := ui.confirm.Update(msg)
		cmds = append(cmds, cmd)
	case toast.ShowMsg:
		_, cmd := ui.toast.Update(msg)
		cmds = append(cmds, cmd)
	case copy.CopyMsg:
		if msg.Err != nil {
			ui.common.Logger.Error("copy", "err", msg.Err)
			cmds = append(cmds, toast.ShowCmd(toast.Error, "Error copying to clipboard"))
			break
		}
		cmds = append(cmds, toast.ShowCmd(toast.Success, msg.Message))
	case common.ResultMsg:
		res := team.Result(msg)
		if m := res.Message(); m != "" {
			cmds = append(cmds, toast.ShowCmd(toast.Error, m))
		}
		cmds = append(cmds, ui.broadcast(msg))
	case tabs.ActiveTabMsg:
		if int(msg) != ui.activePage {
			if b, ok := ui.pages[ui.activePage].(common.Blurrer); ok {
				cmds = append(cmds, b.Blur())
			}
		}
		ui.activePage = int(msg)
	case tea.KeyMsg:
		if ui.confirm.Active() {
			_, cmd := ui.confirm.Update(msg)
			return ui, cmd
		}
		if msg.Type == tea.KeyCtrlC {
			return ui, tea.Quit
		}
		if ui.capturing() {
			return ui, ui.updateActive(msg)
		}
		km := ui.common.KeyMap
		switch {
		case key.Matches(msg, km.Quit):
			return ui, tea.Quit
		case key.Matches(msg, km.Help):
			_, cmd := ui.footer.Update(msg)
			ui.SetSize(ui.common.Width, ui.common.Height)
			return ui, cmd
		case key.Matches(msg, km.Back) && ui.state == errorState:
			ui.error = nil
			ui.state = ui.computeState()
			return ui, ui.refreshCmd()
		case key.Matches(msg, km.Refresh):
			cmds = append(cmds, ui.refreshCmd(), ui.messageCmd())
		}
		if ui.state == loadedState {
			t, cmd := ui.tabs.Update(msg)
			ui.tabs = t.(*tabs.Tabs)
			cmds = append(cmds, cmd)
		}
		if ui.state == loadedState || ui.state == onboardState {
			cmds = append(cmds, ui.updateActive(msg))
		}
	case tea.MouseMsg:
		if ui.confirm.Active() {
			_, cmd := ui.confirm.Update(msg)
			return ui, cmd
		}
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft &&
			ui.common.Zone.Get(statusbar.HelpZone).InBounds(msg) {
			ui.footer.SetShowAll(!ui.footer.ShowAll())
			ui.SetSize(ui.common.Width, ui.common.Height)
			return ui, nil
		}
		if ui.state == loadedState {
			t, cmd := ui.tabs.Update(msg)
			ui.tabs = t.(*tabs.Tabs)
			cmds = append(cmds, cmd, ui.updateActive(msg))
		}
		if ui.state == onboardState {
			cmds = append(cmds, ui.updateActive(msg))
		}
	default:
		_, cmd := ui.toast.Update(msg)
		cmds = append(cmds, cmd, ui.broadcast(msg))
	}
	ui.updateStatus()
	return ui, tea.Batch(cmds...)
}

func (ui *UI) updateStatus() {
	extra := "logged out"
	if ui.store != nil {
		if u := ui.store.User().Value; u != nil {
			extra = u.Email
		}
	}
	value, info := "", ""
	if ui.state == loadedState || ui.state == onboardState {
		p := ui.activeModel()
		value, info = p.StatusBarValue(), p.StatusBarInfo()
	}
	ui.statusbar.SetStatus(ui.state.String(), value, info, extra)
}

// Close stops the UI's background work.
func (ui *UI) Close() {
	ui.bridge.Close()
	if ui.unsubscribe != nil {
		ui.unsubscribe()
	}
}

// View implements tea.Model.
func (ui *UI) View() string {
	st := ui.common.Styles
	wm, hm := ui.getMargins()
	var body string
	switch ui.state {
	case loadingState:
		body = st.NoContent.Render(LoadingText)
	case noTeamState:
		body = st.NoContent.Render(NoTeamText)
	case loggedOutState:
		body = st.NoContent.Render(LoggedOutText)
	case errorState:
		err := ui.storeErr()
		msg := "Something went wrong."
		if err != nil {
			msg = api.Message(err, err.Error())
		}
		body = st.Error.Render(lipgloss.JoinVertical(lipgloss.Left,
			st.ErrorTitle.Render("Error"),
			st.ErrorBody.Render(msg),
			st.ErrorBody.Render("Press esc to retry."),
		))
	case onboardState:
		body = ui.onboard.View()
	case loadedState:
		body = lipgloss.JoinVertical(lipgloss.Left,
			ui.tabs.View(),
			ui.pages[ui.activePage].View(),
		)
	}
	if ui.confirm.Active() {
		body = lipgloss.Place(ui.common.Width-wm, ui.common.Height-hm,
			lipgloss.Center, lipgloss.Center, ui.confirm.View())
	} else {
		body = lipgloss.NewStyle().Height(ui.common.Height - hm).MaxHeight(ui.common.Height - hm).Render(body)
	}
	view := lipgloss.JoinVertical(lipgloss.Left,
		ui.header.View(),
		body,
		ui.toast.View(),
		ui.statusbar.View(),
		ui.footer.View(),
	)
	return ui.common.Zone.Scan(
		st.App.Render(view),
	)
}
