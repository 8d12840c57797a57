package dropzone_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
	"github.com/upac/pokerbots/pkg/ui/components/toast"
	"github.com/upac/pokerbots/pkg/ui/uitest"
	"github.com/upac/pokerbots/pkg/upload"
)

func TestCleanPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"  /tmp/bot.zip \n", "/tmp/bot.zip"},
		{"'/tmp/my bot.zip'", "/tmp/my bot.zip"},
		{`"/tmp/my bot.zip"`, "/tmp/my bot.zip"},
		{`/tmp/my\ bot.zip`, "/tmp/my bot.zip"},
		{"file:///tmp/my%20bot.zip", "/tmp/my bot.zip"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			is := is.New(t)
			is.Equal(dropzone.CleanPath(c.in), c.want)
		})
	}
}

func setup(t *testing.T, readonly bool) (*apitest.Server, *dropzone.Dropzone, *upload.DropZone, *upload.Uploader) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ada@example.com", "Ada")
	srv.AddTeam("aces", "ada@example.com")
	srv.Login("ada@example.com")
	c, st := uitest.New(t, srv, nil)
	z := upload.NewDropZone(readonly)
	u := upload.New(upload.Bot, c.Client(), st, upload.WithRefreshDelay(time.Millisecond), upload.WithDropZone(z))
	return srv, dropzone.New(c, "Drop a bot", u, z, ".zip"), z, u
}

func TestDrop(t *testing.T) {
	is := is.New(t)
	srv, d, z, u := setup(t, false)
	path := filepath.Join(t.TempDir(), "bot.zip")
	is.NoErr(os.WriteFile(path, []byte("zip"), 0o600))

	is.True(strings.Contains(d.View(), "Drop a bot"))
	d.Focus()
	is.True(d.Focused())
	is.True(z.Dragging())

	d.Update(uitest.Key("'" + path + "'"))
	_, cmd := d.Update(uitest.Key("enter"))
	is.True(!d.Focused())
	is.True(!z.Dragging())
	is.True(u.Busy())

	var done *dropzone.DoneMsg
	for _, m := range uitest.Run(cmd) {
		if msg, ok := m.(dropzone.DoneMsg); ok {
			done = &msg
		}
	}
	is.True(done != nil)
	is.NoErr(done.Outcome.Err)
	is.Equal(done.Path, path)
	is.True(!u.Busy())
	is.Equal(srv.CallsTo("/upload-bot"), 1)

	_, cmd = d.Update(*done)
	msgs := uitest.Run(cmd)
	is.Equal(len(msgs), 1)
	show := msgs[0].(toast.ShowMsg)
	is.Equal(show.Level, toast.Success)
	is.Equal(show.Message, "Uploaded bot.zip")
}

func TestDropFailureNotifies(t *testing.T) {
	is := is.New(t)
	_, d, _, u := setup(t, false)

	d.Focus()
	d.Update(uitest.Key(filepath.Join(t.TempDir(), "missing.zip")))
	_, cmd := d.Update(uitest.Key("enter"))
	msgs := uitest.Run(cmd)
	is.Equal(len(msgs), 1)
	is.Equal(msgs[0].(toast.ShowMsg).Message, "Error uploading bot")
	is.Equal(msgs[0].(toast.ShowMsg).Level, toast.Error)
	is.True(!u.Busy())
}

func TestEmptyDropIsIgnored(t *testing.T) {
	is := is.New(t)
	srv, d, z, _ := setup(t, false)
	d.Focus()
	_, cmd := d.Update(uitest.Key("enter"))
	is.True(cmd == nil)
	is.True(!z.Dragging())
	is.Equal(len(srv.Calls()), 0)
}

func TestReadonlyZone(t *testing.T) {
	is := is.New(t)
	_, d, z, _ := setup(t, true)
	is.True(d.Focus() == nil)
	is.True(!d.Focused())
	is.True(!z.Dragging())
	is.Equal(d.View(), "")
}

func TestEscLeaves(t *testing.T) {
	is := is.New(t)
	_, d, z, _ := setup(t, false)
	d.Focus()
	d.Update(uitest.Key("esc"))
	is.True(!d.Focused())
	is.True(!z.Dragging())
}
