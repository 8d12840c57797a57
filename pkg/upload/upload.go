// Package upload streams bots and team pictures to the platform.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
)

// DefaultRefreshDelay is how long to wait before refetching after an upload
// that didn't report a version.
const DefaultRefreshDelay = 100 * time.Millisecond

// ErrBusy is reported when an upload starts while another one from the same
// control is still in flight. The upload still proceeds.
var ErrBusy = errors.New("upload already in progress")

// Kind is the kind of upload.
type Kind int

// Upload kinds.
const (
	Bot Kind = iota
	Pfp
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Bot:
		return "bot"
	case Pfp:
		return "picture"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FailureMessage is the notification shown when an upload fails without a
// message from the server.
func (k Kind) FailureMessage() string {
	return "Error uploading " + k.String()
}

// Level is the severity of a notification.
type Level int

// Notification levels.
const (
	Info Level = iota
	Success
	Error
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Client is the subset of the API used for uploads.
type Client interface {
	UploadBot(ctx context.Context, r io.Reader, size int64) (*api.UploadResult, error)
	UploadPfp(ctx context.Context, r io.Reader, size int64) (*api.UploadResult, error)
}

// Refresher refetches what depends on an upload.
type Refresher interface {
	RefreshTeam(ctx context.Context) error
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithRefreshDelay sets the fallback refetch delay.
func WithRefreshDelay(d time.Duration) Option {
	return func(u *Uploader) {
		u.delay = d
	}
}

// WithDropZone mirrors the busy state into a drop zone.
func WithDropZone(z *DropZone) Option {
	return func(u *Uploader) {
		u.zone = z
	}
}

// Uploader uploads files of one kind.
type Uploader struct {
	kind   Kind
	client Client
	store  Refresher
	delay  time.Duration
	zone   *DropZone

	mu       sync.Mutex
	inflight int
	version  string
}

// New returns a new Uploader. store may be nil when nothing depends on the
// upload.
func New(kind Kind, client Client, st Refresher, opts ...Option) *Uploader {
	u := &Uploader{
		kind:   kind,
		client: client,
		store:  st,
		delay:  DefaultRefreshDelay,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Kind returns the kind of uploads.
func (u *Uploader) Kind() Kind {
	return u.kind
}

// Busy reports whether an upload is in flight.
func (u *Uploader) Busy() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inflight > 0
}

// Version returns the version reported by the last successful upload.
func (u *Uploader) Version() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.version
}

func (u *Uploader) acquire() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	busy := u.inflight > 0
	u.inflight++
	if u.zone != nil {
		u.zone.setUploading(true)
	}
	return busy
}

func (u *Uploader) release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inflight > 0 {
		u.inflight--
	}
	if u.zone != nil && u.inflight == 0 {
		u.zone.setUploading(false)
	}
}

// Job is a started upload.
type Job struct {
	u    *Uploader
	path string
	file *os.File
	size int64
	once sync.Once

	// Warning is ErrBusy when another upload was in flight at start.
	Warning error
}

// Path returns the uploaded file path.
func (j *Job) Path() string {
	return j.path
}

// Outcome is the result of an upload.
type Outcome struct {
	Result *api.UploadResult
	Err    error

	// Refreshed reports whether dependents were refetched.
	Refreshed bool

	// Notification is set when the user should be told something.
	Notification *Notification
}

// Start opens the file and marks the uploader busy. An empty path is a
// no-op and returns a nil job.
func (u *Uploader) Start(path string) (*Job, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	size := int64(-1)
	if fi, err := f.Stat(); err == nil {
		if fi.IsDir() {
			f.Close() // nolint: errcheck
			return nil, fmt.Errorf("%s is a directory", path)
		}
		size = fi.Size()
	}

	j := &Job{u: u, path: path, file: f, size: size}
	if u.acquire() {
		j.Warning = ErrBusy
	}
	return j, nil
}

// Run streams the file. The uploader's busy state is cleared when Run
// returns, whatever the outcome.
func (j *Job) Run(ctx context.Context) (out Outcome) {
	u := j.u
	logger := log.FromContext(ctx).WithPrefix("upload")
	defer j.once.Do(u.release)
	defer j.file.Close() // nolint: errcheck

	if j.Warning != nil {
		logger.Info("starting upload while busy", "kind", u.kind, "err", j.Warning)
	}

	logger.Debug("uploading", "kind", u.kind, "path", j.path, "size", j.size)
	var res *api.UploadResult
	var err error
	switch u.kind {
	case Pfp:
		res, err = u.client.UploadPfp(ctx, j.file, j.size)
	default:
		res, err = u.client.UploadBot(ctx, j.file, j.size)
	}
	if err != nil {
		logger.Error("upload failed", "kind", u.kind, "err", err)
		return Outcome{
			Err: err,
			Notification: &Notification{
				Level:   Error,
				Message: api.Message(err, u.kind.FailureMessage()),
			},
		}
	}

	if res.Version != "" {
		u.mu.Lock()
		u.version = res.Version
		u.mu.Unlock()
	}

	out = Outcome{Result: res}
	if u.store == nil {
		return out
	}

	// A version means the server finished processing the upload. Otherwise
	// give it a moment before refetching.
	if res.Version == "" && u.delay > 0 {
		t := time.NewTimer(u.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return out
		}
	}

	if err := u.store.RefreshTeam(ctx); err != nil && !errors.Is(err, store.ErrStale) {
		logger.Debug("refresh after upload failed", "kind", u.kind, "err", err)
		return out
	}
	out.Refreshed = true
	return out
}

// Cancel releases a started job without uploading.
func (j *Job) Cancel() {
	if j == nil {
		return
	}
	j.file.Close() // nolint: errcheck
	j.once.Do(j.u.release)
}

// Upload starts and runs an upload. An empty path is a no-op.
func (u *Uploader) Upload(ctx context.Context, path string) Outcome {
	j, err := u.Start(path)
	if err != nil {
		log.FromContext(ctx).WithPrefix("upload").Error("open upload", "path", path, "err", err)
		return Outcome{
			Err:          err,
			Notification: &Notification{Level: Error, Message: u.kind.FailureMessage()},
		}
	}
	if j == nil {
		return Outcome{}
	}
	return j.Run(ctx)
}
