package upload_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/upload"
)

func setup(t *testing.T) (*apitest.Server, *store.Store, int64) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ada@example.com", "Ada")
	id := srv.AddTeam("aces", "ada@example.com")
	srv.Login("ada@example.com")
	return srv, store.New(srv.Client(t)), id
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmptyPathIsNoop(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	u := upload.New(upload.Bot, srv.Client(t), s)

	out := u.Upload(context.Background(), "")
	is.NoErr(out.Err)
	is.True(out.Result == nil)
	is.True(out.Notification == nil)
	is.True(!u.Busy())
	is.Equal(len(srv.Calls()), 0)

	j, err := u.Start("")
	is.NoErr(err)
	is.True(j == nil)
	j.Cancel()
}

func TestUploadBot(t *testing.T) {
	is := is.New(t)
	srv, s, id := setup(t)
	zone := upload.NewDropZone(false)
	u := upload.New(upload.Bot, srv.Client(t), s, upload.WithRefreshDelay(time.Millisecond), upload.WithDropZone(zone))
	path := writeFile(t, "bot.zip", "PK\x03\x04bot")

	out := u.Upload(context.Background(), path)
	is.NoErr(out.Err)
	is.True(out.Result.ID != nil)
	is.True(out.Refreshed)
	is.True(!u.Busy())
	is.True(!zone.Uploading())

	b, ok := srv.Bot(*out.Result.ID)
	is.True(ok)
	is.Equal(b.TeamID, id)

	calls := srv.Calls()
	is.Equal(calls[0].Path, "/upload-bot")
	is.Equal(string(calls[0].Body), "PK\x03\x04bot")
	is.Equal(srv.CallsTo("/my-team"), 1)
}

func TestVersionRefreshesImmediately(t *testing.T) {
	is := is.New(t)
	srv, s, id := setup(t)
	srv.SetUploadVersion("v42")
	u := upload.New(upload.Pfp, srv.Client(t), s, upload.WithRefreshDelay(time.Hour))
	path := writeFile(t, "pfp.png", "png")

	start := time.Now()
	out := u.Upload(context.Background(), path)
	is.NoErr(out.Err)
	is.True(out.Refreshed)
	is.True(time.Since(start) < time.Minute)
	is.Equal(u.Version(), "v42")
	is.Equal(string(srv.Pfp(id)), "png")
	is.Equal(s.Team().Value.ID, id)
}

func TestFallbackDelay(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	delay := 30 * time.Millisecond
	u := upload.New(upload.Pfp, srv.Client(t), s, upload.WithRefreshDelay(delay))
	path := writeFile(t, "pfp.png", "png")

	start := time.Now()
	out := u.Upload(context.Background(), path)
	is.NoErr(out.Err)
	is.True(out.Refreshed)
	is.True(time.Since(start) >= delay)
}

func TestCancelledDuringDelay(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	u := upload.New(upload.Pfp, srv.Client(t), s, upload.WithRefreshDelay(time.Hour))
	path := writeFile(t, "pfp.png", "png")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	out := u.Upload(ctx, path)
	is.NoErr(out.Err)
	is.True(!out.Refreshed)
	is.True(!u.Busy())
	is.Equal(srv.CallsTo("/my-team"), 0)
}

func TestTransportFailure(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	srv.Fail("/upload-bot", apitest.Failure{Status: http.StatusBadGateway})
	zone := upload.NewDropZone(false)
	u := upload.New(upload.Bot, srv.Client(t), s, upload.WithDropZone(zone))

	out := u.Upload(context.Background(), writeFile(t, "bot.zip", "zip"))
	is.True(out.Err != nil)
	is.Equal(out.Notification.Level, upload.Error)
	is.Equal(out.Notification.Message, "Error uploading bot")
	is.True(!out.Refreshed)
	is.True(!u.Busy())
	is.True(!zone.Uploading())
}

func TestDomainFailure(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	srv.Login("nobody@example.com")
	u := upload.New(upload.Pfp, srv.Client(t), s)

	out := u.Upload(context.Background(), writeFile(t, "pfp.png", "png"))
	is.Equal(out.Notification.Message, "You must be on a team to upload a picture")
	is.True(!u.Busy())
}

func TestMissingFile(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	u := upload.New(upload.Pfp, srv.Client(t), s)

	out := u.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	is.True(errors.Is(out.Err, os.ErrNotExist))
	is.Equal(out.Notification.Message, "Error uploading picture")
	is.True(!u.Busy())
	is.Equal(len(srv.Calls()), 0)

	out = u.Upload(context.Background(), t.TempDir())
	is.True(out.Err != nil)
	is.True(!u.Busy())
}

func TestBusyWhileInFlight(t *testing.T) {
	is := is.New(t)
	srv, s, _ := setup(t)
	zone := upload.NewDropZone(false)
	u := upload.New(upload.Bot, srv.Client(t), s, upload.WithRefreshDelay(time.Millisecond), upload.WithDropZone(zone))
	path := writeFile(t, "bot.zip", "zip")
	arrived, release := srv.Hold("/upload-bot")
	defer release()

	j, err := u.Start(path)
	is.NoErr(err)
	is.NoErr(j.Warning)
	done := make(chan upload.Outcome, 1)
	go func() { done <- j.Run(context.Background()) }()

	<-arrived
	is.True(u.Busy())
	is.True(zone.Uploading())

	// A second upload isn't blocked, only flagged.
	j2, err := u.Start(path)
	is.NoErr(err)
	is.Equal(j2.Warning, upload.ErrBusy)
	j2.Cancel()
	is.True(u.Busy())

	release()
	out := <-done
	is.NoErr(out.Err)
	is.True(!u.Busy())
	is.True(!zone.Uploading())
}

func TestKind(t *testing.T) {
	is := is.New(t)
	is.Equal(upload.Bot.FailureMessage(), "Error uploading bot")
	is.Equal(upload.Pfp.FailureMessage(), "Error uploading picture")
}
