// Package dropzone is an upload target. Files are dropped by pasting or
// dragging their path into the terminal, or picked from a file browser.
package dropzone

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/toast"
	"github.com/upac/pokerbots/pkg/upload"
)

// DoneMsg is sent when an upload finished.
type DoneMsg struct {
	Kind    upload.Kind
	Path    string
	Outcome upload.Outcome
}

// Dropzone is an upload target bound to an uploader.
type Dropzone struct {
	common   common.Common
	label    string
	zone     *upload.DropZone
	uploader *upload.Uploader
	input    textinput.Model
	picker   filepicker.Model
	spinner  spinner.Model
	focused  bool
	picking  bool
}

// New returns a new Dropzone. allowed restricts the file browser to these
// extensions.
func New(c common.Common, label string, u *upload.Uploader, z *upload.DropZone, allowed ...string) *Dropzone {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "drop or paste a file path"
	fp := filepicker.New()
	fp.AllowedTypes = allowed
	fp.ShowHidden = false
	fp.Height = 8
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(c.Styles.Spinner.Copy().Margin(0)))
	d := &Dropzone{
		common:   c,
		label:    label,
		zone:     z,
		uploader: u,
		input:    ti,
		picker:   fp,
		spinner:  sp,
	}
	return d
}

func (d *Dropzone) zoneID() string {
	return "dropzone-" + d.uploader.Kind().String()
}

// SetSize implements common.Component.
func (d *Dropzone) SetSize(width, height int) {
	d.common.SetSize(width, height)
	d.input.Width = width - d.common.Styles.DropZone.GetHorizontalFrameSize() - lipgloss.Width(d.input.Prompt) - 1
}

// SetReadonly hides the zone and makes it ignore events.
func (d *Dropzone) SetReadonly(readonly bool) {
	d.zone.SetReadonly(readonly)
	if readonly {
		d.Blur()
	}
}

// Focused reports whether the zone takes key input.
func (d *Dropzone) Focused() bool {
	return d.focused
}

// Picking reports whether the file browser is open.
func (d *Dropzone) Picking() bool {
	return d.picking
}

// Busy reports whether an upload is in flight.
func (d *Dropzone) Busy() bool {
	return d.uploader.Busy()
}

// Focus makes the zone the drop target.
func (d *Dropzone) Focus() tea.Cmd {
	if d.zone.Readonly() {
		return nil
	}
	d.focused = true
	d.zone.DragEnter()
	return d.input.Focus()
}

// Blur leaves the zone.
func (d *Dropzone) Blur() {
	d.focused = false
	d.picking = false
	d.zone.DragLeave()
	d.input.Blur()
	d.input.Reset()
}

// Init implements tea.Model.
func (d *Dropzone) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (d *Dropzone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		if msg.Kind != d.uploader.Kind() {
			return d, nil
		}
		if n := msg.Outcome.Notification; n != nil {
			return d, toast.ShowCmd(toastLevel(n.Level), n.Message)
		}
		return d, toast.ShowCmd(toast.Success, "Uploaded "+filepath.Base(msg.Path))
	case spinner.TickMsg:
		if !d.uploader.Busy() {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft &&
			!d.focused && d.common.Zone.Get(d.zoneID()).InBounds(msg) {
			return d, d.Focus()
		}
		return d, nil
	case tea.KeyMsg:
		if !d.focused {
			return d, nil
		}
		return d, d.handleKey(msg)
	}
	if d.picking {
		var cmd tea.Cmd
		d.picker, cmd = d.picker.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *Dropzone) handleKey(msg tea.KeyMsg) tea.Cmd {
	km := d.common.KeyMap
	if d.picking {
		if key.Matches(msg, km.Back) {
			d.picking = false
			return nil
		}
		var cmd tea.Cmd
		d.picker, cmd = d.picker.Update(msg)
		if ok, path := d.picker.DidSelectFile(msg); ok {
			d.picking = false
			return d.drop(path)
		}
		return cmd
	}
	switch {
	case key.Matches(msg, km.Browse):
		d.picking = true
		if dir, err := os.UserHomeDir(); err == nil {
			d.picker.CurrentDirectory = dir
		}
		return d.picker.Init()
	case key.Matches(msg, km.Select):
		return d.drop(CleanPath(d.input.Value()))
	case key.Matches(msg, km.Back):
		d.Blur()
		return nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

func toastLevel(l upload.Level) toast.Level {
	switch l {
	case upload.Success:
		return toast.Success
	case upload.Error:
		return toast.Error
	}
	return toast.Info
}

// drop hands a path to the zone and starts the upload when accepted.
func (d *Dropzone) drop(path string) tea.Cmd {
	p, ok := d.zone.Drop(path)
	d.Blur()
	if !ok {
		return nil
	}
	job, err := d.uploader.Start(p)
	if err != nil {
		d.common.Logger.Error("open upload", "path", p, "err", err)
		return toast.ShowCmd(toast.Error, d.uploader.Kind().FailureMessage())
	}
	if job == nil {
		return nil
	}
	ctx := d.common.Context()
	kind := d.uploader.Kind()
	cmds := []tea.Cmd{
		d.spinner.Tick,
		func() tea.Msg {
			return DoneMsg{Kind: kind, Path: p, Outcome: job.Run(ctx)}
		},
	}
	if job.Warning != nil {
		cmds = append(cmds, toast.ShowCmd(toast.Info, "Another "+kind.String()+" upload is in progress"))
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (d *Dropzone) View() string {
	if d.zone.Readonly() {
		return ""
	}
	st := d.common.Styles
	var body string
	style := st.DropZone
	switch {
	case d.picking:
		style = st.DropZoneDragging
		body = d.picker.View()
	case d.focused:
		style = st.DropZoneDragging
		body = d.input.View()
	case d.uploader.Busy():
		style = st.DropZoneBusy
		body = d.spinner.View() + " Uploading " + d.uploader.Kind().String() + "…"
	default:
		body = d.label
	}
	return d.common.Zone.Mark(d.zoneID(), style.Render(body))
}

// CleanPath turns what a terminal pastes for a dropped file into a path.
// Terminals may quote the path, escape its spaces or send a file URL.
func CleanPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	} else {
		s = strings.ReplaceAll(s, `\ `, " ")
	}
	if strings.HasPrefix(s, "file://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	return s
}
