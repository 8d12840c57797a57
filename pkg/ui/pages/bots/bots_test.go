package bots_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
	"github.com/upac/pokerbots/pkg/ui/pages/bots"
	"github.com/upac/pokerbots/pkg/ui/uitest"
	"github.com/upac/pokerbots/pkg/upload"
)

type fixture struct {
	srv      *apitest.Server
	page     *bots.Bots
	aces     int64
	ready    int64
	building int64
}

func setup(t *testing.T, viewer string, selectAces bool) *fixture {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ada@example.com", "Ada")
	srv.AddUser("cy@example.com", "Cy")
	f := &fixture{srv: srv}
	f.aces = srv.AddTeam("aces", "ada@example.com")
	srv.AddTeam("kings", "cy@example.com")
	f.ready = srv.AddBot(f.aces, "ready-bot", "ada@example.com", api.TestGameSucceeded)
	f.building = srv.AddBot(f.aces, "building-bot", "ada@example.com", api.Building)
	srv.Login(viewer)

	var selected *int64
	if selectAces {
		selected = &f.aces
	}
	c, st := uitest.New(t, srv, selected)
	uitest.Load(t, st)
	m := team.NewManager(c.Client(), st, team.AlwaysConfirm)
	z := upload.NewDropZone(c.Readonly())
	up := dropzone.New(c, "Drop a bot", upload.New(upload.Bot, c.Client(), st, upload.WithDropZone(z)), z)
	f.page = bots.New(c, c.Client(), m, up)
	f.page.SetSize(uitest.Width, 30)
	f.deliver(t, f.page.Init())
	return f
}

// deliver runs cmd and feeds its messages back to the page.
func (f *fixture) deliver(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	msgs := uitest.Run(cmd)
	for _, m := range msgs {
		f.page.Update(m)
	}
	return msgs
}

func result(t *testing.T, msgs []tea.Msg) team.Result {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(common.ResultMsg); ok {
			return team.Result(r)
		}
	}
	t.Fatalf("no result in %v", msgs)
	return team.Result{}
}

func TestList(t *testing.T) {
	is := is.New(t)
	f := setup(t, "ada@example.com", false)

	bs := f.page.Bots()
	is.Equal(len(bs), 2)
	is.Equal(bs[0].ID, f.building) // newest first
	is.Equal(f.page.Selected().ID, f.building)
	v := f.page.View()
	is.True(strings.Contains(v, "ready-bot"))
	is.True(strings.Contains(v, "building"))
	is.True(strings.Contains(v, "Drop a bot"))
	is.Equal(f.page.StatusBarInfo(), "1/2")
}

func TestSetActive(t *testing.T) {
	is := is.New(t)
	f := setup(t, "ada@example.com", false)

	// The building bot can't be activated.
	_, cmd := f.page.Update(uitest.Key("s"))
	res := result(t, uitest.Run(cmd))
	is.Equal(res.Message(), "Bot is not ready")

	f.page.Update(uitest.Key("down"))
	is.Equal(f.page.Selected().ID, f.ready)
	_, cmd = f.page.Update(uitest.Key("s"))
	res = result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	got, _ := f.srv.Team(f.aces)
	is.Equal(*got.ActiveBot, f.ready)

	f.srv.ResetCalls()
	_, cmd = f.page.Update(common.ResultMsg(res))
	f.deliver(t, cmd)
	is.Equal(f.srv.CallsTo("/bots"), 1)
	is.True(strings.Contains(f.page.View(), "●"))
}

func TestDelete(t *testing.T) {
	is := is.New(t)
	f := setup(t, "ada@example.com", false)

	_, cmd := f.page.Update(uitest.Key("x"))
	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	_, ok := f.srv.Bot(f.building)
	is.True(!ok)

	_, cmd = f.page.Update(common.ResultMsg(res))
	f.deliver(t, cmd)
	is.Equal(len(f.page.Bots()), 1)
}

func TestReadonly(t *testing.T) {
	is := is.New(t)
	f := setup(t, "cy@example.com", true)

	is.Equal(len(f.page.Bots()), 2)
	_, cmd := f.page.Update(uitest.Key("s"))
	is.True(cmd == nil)
	_, cmd = f.page.Update(uitest.Key("x"))
	is.True(cmd == nil)
	_, cmd = f.page.Update(uitest.Key("u"))
	is.True(cmd == nil)
	is.True(!strings.Contains(f.page.View(), "Drop a bot"))
}

func TestStaleLoadIgnored(t *testing.T) {
	is := is.New(t)
	f := setup(t, "ada@example.com", false)
	f.page.Update(bots.LoadedMsg{TeamID: 999, Bots: nil})
	is.Equal(len(f.page.Bots()), 2)
}
