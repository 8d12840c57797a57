package teambar_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/copy"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
	"github.com/upac/pokerbots/pkg/ui/pages/teambar"
	"github.com/upac/pokerbots/pkg/ui/uitest"
	"github.com/upac/pokerbots/pkg/upload"
)

func seed(srv *apitest.Server) (aces, kings int64) {
	srv.AddUser("ada@example.com", "Ada")
	srv.AddUser("bob@example.com", "Bob")
	srv.AddUser("cy@example.com", "Cy")
	aces = srv.AddTeam("aces", "ada@example.com", "bob@example.com")
	kings = srv.AddTeam("kings", "cy@example.com")
	return aces, kings
}

func newBar(t *testing.T, srv *apitest.Server, selected *int64, confirmer team.Confirmer) *teambar.TeamBar {
	t.Helper()
	c, st := uitest.New(t, srv, selected)
	uitest.Load(t, st)
	m := team.NewManager(c.Client(), st, confirmer)
	z := upload.NewDropZone(c.Readonly())
	pfp := dropzone.New(c, "Drop a picture", upload.New(upload.Pfp, c.Client(), st, upload.WithDropZone(z)), z)
	tb := teambar.New(c, m, pfp)
	tb.Init()
	return tb
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

func TestOwnerView(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	v := tb.View()
	is.True(strings.Contains(v, "aces"))
	is.True(strings.Contains(v, "Delete team")) // own row
	is.True(strings.Contains(v, "Kick"))        // bob's row
	is.True(strings.Contains(v, "Add a member"))
	is.True(strings.Contains(v, "Rename"))
	is.True(strings.Contains(v, "Drop a picture"))
	is.Equal(tb.StatusBarInfo(), "2/5")
}

func TestMemberView(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	seed(srv)
	srv.Login("bob@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	v := tb.View()
	is.True(strings.Contains(v, "Leave"))
	is.True(!strings.Contains(v, "Kick"))
	is.True(!strings.Contains(v, "Delete team"))
}

func TestReadonlyView(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.AddInvite(aces, "abc")
	srv.Login("cy@example.com")
	tb := newBar(t, srv, &aces, team.AlwaysConfirm)

	v := tb.View()
	is.True(strings.Contains(v, "aces"))
	is.True(strings.Contains(v, "You are viewing another team."))
	is.True(!strings.Contains(v, "Kick"))
	is.True(!strings.Contains(v, "Add a member"))
	is.True(!strings.Contains(v, "Cancel invitation"))
	is.True(!strings.Contains(v, "Rename"))
	is.True(!strings.Contains(v, "Drop a picture"))
	is.Equal(tb.StatusBarInfo(), "read only")

	_, cmd := tb.Update(uitest.Key("r"))
	is.True(cmd == nil)
	is.True(!tb.Editing())
	_, cmd = tb.Update(uitest.Key("a"))
	is.True(cmd == nil)
}

func TestAddMemberHiddenWhenFull(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	for _, code := range []string{"a", "b", "c"} {
		srv.AddInvite(aces, code)
	}
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	is.True(!strings.Contains(tb.View(), "Add a member"))
	_, cmd := tb.Update(uitest.Key("a"))
	is.True(cmd == nil)
}

func TestRename(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	tb.Update(uitest.Key("r"))
	is.True(tb.Editing())
	is.True(tb.Capturing())
	tb.Update(uitest.Key("ctrl+u"))
	tb.Update(uitest.Key("jacks"))
	_, cmd := tb.Update(uitest.Key("enter"))
	is.True(!tb.Editing())
	is.Equal(tb.StatusBarValue(), "jacks") // shown before the call settles

	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	tb.Update(common.ResultMsg(res))
	got, _ := srv.Team(aces)
	is.Equal(got.Name, "jacks")
	is.Equal(tb.StatusBarValue(), "jacks")
}

func TestRenameRevertsOnFailure(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	tb.Update(uitest.Key("r"))
	tb.Update(uitest.Key("ctrl+u"))
	tb.Update(uitest.Key("kings"))
	_, cmd := tb.Update(uitest.Key("enter"))
	is.Equal(tb.StatusBarValue(), "kings")

	res := result(t, uitest.Run(cmd))
	is.Equal(res.Message(), "Team name already taken")
	is.Equal(res.Revert, "aces")
	tb.Update(common.ResultMsg(res))
	is.Equal(tb.StatusBarValue(), "aces")
}

func TestRenameEscCancels(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	tb.Update(uitest.Key("r"))
	tb.Update(uitest.Key("zzz"))
	_, cmd := tb.Update(uitest.Key("esc"))
	is.True(cmd == nil)
	is.True(!tb.Editing())
	is.Equal(tb.StatusBarValue(), "aces")
	is.Equal(srv.CallsTo("/rename-team"), 0)
}

func TestRenameCommitsOnBlur(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	is.True(tb.Blur() == nil) // nothing to commit

	tb.Update(uitest.Key("r"))
	tb.Update(uitest.Key("ctrl+u"))
	tb.Update(uitest.Key("jacks"))
	cmd := tb.Blur()
	is.True(!tb.Editing())
	is.Equal(tb.StatusBarValue(), "jacks")

	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	got, _ := srv.Team(aces)
	is.Equal(got.Name, "jacks")
}

func TestRenameCommitsOnClickElsewhere(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	tb.Update(uitest.Key("r"))
	tb.Update(uitest.Key("ctrl+u"))
	tb.Update(uitest.Key("queens"))
	_, cmd := tb.Update(tea.MouseMsg{
		X:      1000,
		Y:      1000,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	})
	is.True(!tb.Editing())

	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	got, _ := srv.Team(aces)
	is.Equal(got.Name, "queens")
}

func TestKick(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	var prompts []string
	confirmer := team.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return true, nil
	})
	tb := newBar(t, srv, nil, confirmer)

	// name, ada, bob
	tb.Update(uitest.Key("down"))
	tb.Update(uitest.Key("down"))
	_, cmd := tb.Update(uitest.Key("x"))
	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	is.Equal(res.Action, team.Kick)
	is.Equal(prompts, []string{"Are you sure you want to kick this member?"})

	got, _ := srv.Team(aces)
	is.Equal(len(got.Members), 1)
}

func TestKickDeclined(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, nil)

	tb.Update(uitest.Key("down"))
	tb.Update(uitest.Key("down"))
	_, cmd := tb.Update(uitest.Key("enter"))
	res := result(t, uitest.Run(cmd))
	is.True(res.Cancelled())
	is.Equal(res.Message(), "")
	is.Equal(srv.CallsTo("/kick-member"), 0)
	got, _ := srv.Team(aces)
	is.Equal(len(got.Members), 2)
}

func TestInvites(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	aces, _ := seed(srv)
	srv.Login("ada@example.com")
	tb := newBar(t, srv, nil, team.AlwaysConfirm)

	_, cmd := tb.Update(uitest.Key("a"))
	res := result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	got, _ := srv.Team(aces)
	is.Equal(len(got.Invites), 1)
	code := got.Invites[0]
	is.True(strings.Contains(tb.View(), "invite_code="+code))

	// name, ada, bob, invite
	for i := 0; i < 3; i++ {
		tb.Update(uitest.Key("down"))
	}
	_, cmd = tb.Update(uitest.Key("c"))
	msgs := uitest.Run(cmd)
	is.Equal(len(msgs), 1)
	cp, ok := msgs[0].(copy.CopyMsg)
	is.True(ok)
	is.True(strings.HasSuffix(cp.Text, "/join-team?invite_code="+code))
	is.Equal(cp.Message, "Copied to clipboard")

	_, cmd = tb.Update(uitest.Key("x"))
	res = result(t, uitest.Run(cmd))
	is.NoErr(res.Err)
	is.Equal(res.Action, team.CancelInvite)
	got, _ = srv.Team(aces)
	is.Equal(len(got.Invites), 0)
}
