// Package teambar shows a team: its name, members, pending invites and
// picture.
package teambar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/copy"
	"github.com/upac/pokerbots/pkg/ui/components/dropzone"
)

type itemKind int

const (
	nameItem itemKind = iota
	memberItem
	inviteItem
	addItem
	pfpItem
)

type item struct {
	kind   itemKind
	member api.User
	invite string
}

// Zone ids.
const (
	renameZone = "teambar-rename"
	addZone    = "teambar-add"
)

func memberZone(email string) string {
	return "teambar-member-" + email
}

func copyZone(code string) string {
	return "teambar-copy-" + code
}

func cancelZone(code string) string {
	return "teambar-cancel-" + code
}

// TeamBar is the team page.
type TeamBar struct {
	common     common.Common
	manager    *team.Manager
	pfp        *dropzone.Dropzone
	name       textinput.Model
	editing    bool
	optimistic *string
	cursor     int
}

// New returns a new TeamBar.
func New(c common.Common, m *team.Manager, pfp *dropzone.Dropzone) *TeamBar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 32
	ti.TextStyle = c.Styles.TeamNameEdit
	t := &TeamBar{
		common:  c,
		manager: m,
		pfp:     pfp,
		name:    ti,
	}
	t.pfp.SetReadonly(c.Readonly())
	return t
}

// SetSize implements common.Component.
func (t *TeamBar) SetSize(width, height int) {
	t.common.SetSize(width, height)
	t.name.Width = width / 2
	t.pfp.SetSize(width, height)
}

// TabName implements common.Page.
func (t *TeamBar) TabName() string {
	return "Team"
}

// StatusBarValue implements common.Page.
func (t *TeamBar) StatusBarValue() string {
	if tm := t.team(); tm != nil {
		return t.displayName(tm)
	}
	return ""
}

// StatusBarInfo implements common.Page.
func (t *TeamBar) StatusBarInfo() string {
	tm := t.team()
	if tm == nil {
		return ""
	}
	if t.common.Readonly() {
		return "read only"
	}
	return fmt.Sprintf("%d/%d", tm.Size(), api.MaxTeamSize)
}

// Capturing implements common.Capturer.
func (t *TeamBar) Capturing() bool {
	return t.editing || t.pfp.Focused()
}

// Editing reports whether the name is being edited.
func (t *TeamBar) Editing() bool {
	return t.editing
}

// ShortHelp implements help.KeyMap.
func (t *TeamBar) ShortHelp() []key.Binding {
	km := t.common.KeyMap
	if t.editing {
		return []key.Binding{km.Select, km.Back}
	}
	b := []key.Binding{km.Up, km.Down, km.Copy}
	if !t.common.Readonly() {
		b = append(b, km.Rename, km.Remove, km.Invite, km.Upload)
	}
	return b
}

// FullHelp implements help.KeyMap.
func (t *TeamBar) FullHelp() [][]key.Binding {
	km := t.common.KeyMap
	b := [][]key.Binding{{km.Up, km.Down, km.Select}, {km.Copy, km.Refresh}}
	if !t.common.Readonly() {
		b = append(b, []key.Binding{km.Rename, km.Remove, km.Invite}, []key.Binding{km.Upload, km.Browse})
	}
	return b
}

func (t *TeamBar) team() *api.Team {
	if s := t.common.Store(); s != nil {
		return s.Team().Value
	}
	return nil
}

func (t *TeamBar) viewer() *api.User {
	if s := t.common.Store(); s != nil {
		return s.User().Value
	}
	return nil
}

func (t *TeamBar) displayName(tm *api.Team) string {
	if t.optimistic != nil {
		return *t.optimistic
	}
	return tm.Name
}

func (t *TeamBar) items() []item {
	tm := t.team()
	if tm == nil {
		return nil
	}
	readonly := t.common.Readonly()
	items := []item{{kind: nameItem}}
	for _, m := range tm.Members {
		items = append(items, item{kind: memberItem, member: m})
	}
	for _, code := range tm.Invites {
		items = append(items, item{kind: inviteItem, invite: code})
	}
	if team.CanAddMember(tm, readonly) {
		items = append(items, item{kind: addItem})
	}
	if !readonly {
		items = append(items, item{kind: pfpItem})
	}
	return items
}

func (t *TeamBar) clampCursor() {
	n := len(t.items())
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *TeamBar) selected() (item, bool) {
	items := t.items()
	if t.cursor < 0 || t.cursor >= len(items) {
		return item{}, false
	}
	return items[t.cursor], true
}

// Init implements tea.Model.
func (t *TeamBar) Init() tea.Cmd {
	t.cursor = 0
	t.editing = false
	return nil
}

// Update implements tea.Model.
func (t *TeamBar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.StoreMsg:
		readonly := t.common.Readonly()
		t.pfp.SetReadonly(readonly)
		if readonly {
			t.stopEditing()
		}
		t.clampCursor()
		return t, nil
	case common.ResultMsg:
		if msg.Action == team.Rename {
			t.optimistic = nil
			if msg.Err != nil && msg.Revert != "" {
				t.name.SetValue(msg.Revert)
			}
		}
		t.clampCursor()
		return t, nil
	case tea.KeyMsg:
		switch {
		case t.editing:
			return t, t.updateEditing(msg)
		case t.pfp.Focused():
			_, cmd := t.pfp.Update(msg)
			return t, cmd
		}
		return t, t.handleKey(msg)
	case tea.MouseMsg:
		if cmd := t.handleMouse(msg); cmd != nil {
			return t, cmd
		}
	}
	_, cmd := t.pfp.Update(msg)
	return t, cmd
}

// Blur implements common.Blurrer. A name being edited is committed.
func (t *TeamBar) Blur() tea.Cmd {
	if !t.editing {
		return nil
	}
	return t.commitRename()
}

// updateEditing commits on enter. Esc abandons the edit.
func (t *TeamBar) updateEditing(msg tea.KeyMsg) tea.Cmd {
	km := t.common.KeyMap
	switch {
	case key.Matches(msg, km.Select):
		return t.commitRename()
	case key.Matches(msg, km.Back):
		t.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	t.name, cmd = t.name.Update(msg)
	return cmd
}

func (t *TeamBar) startEditing() tea.Cmd {
	tm := t.team()
	if tm == nil || !team.CanRename(t.common.Readonly()) {
		return nil
	}
	t.editing = true
	t.name.SetValue(tm.Name)
	t.name.CursorEnd()
	return t.name.Focus()
}

func (t *TeamBar) stopEditing() {
	t.editing = false
	t.name.Blur()
}

func (t *TeamBar) commitRename() tea.Cmd {
	tm := t.team()
	name := t.name.Value()
	t.stopEditing()
	if trimmed := strings.TrimSpace(name); trimmed != "" && tm != nil && trimmed != tm.Name {
		t.optimistic = &trimmed
	}
	ctx := t.common.Context()
	return common.MutateCmd(func() team.Result {
		return t.manager.Rename(ctx, tm, name)
	})
}

func (t *TeamBar) handleKey(msg tea.KeyMsg) tea.Cmd {
	km := t.common.KeyMap
	readonly := t.common.Readonly()
	switch {
	case key.Matches(msg, km.Up):
		t.cursor--
		t.clampCursor()
		return nil
	case key.Matches(msg, km.Down):
		t.cursor++
		t.clampCursor()
		return nil
	case key.Matches(msg, km.Invite):
		return t.createInvite()
	case key.Matches(msg, km.Upload):
		if readonly {
			return nil
		}
		return t.pfp.Focus()
	case key.Matches(msg, km.Rename):
		return t.startEditing()
	}

	it, ok := t.selected()
	if !ok {
		return nil
	}
	switch it.kind {
	case nameItem:
		if key.Matches(msg, km.Select) {
			return t.startEditing()
		}
	case memberItem:
		if key.Matches(msg, km.Select, km.Remove) {
			return t.removeMember(it.member)
		}
	case inviteItem:
		switch {
		case key.Matches(msg, km.Select, km.Copy):
			return t.copyInvite(it.invite)
		case key.Matches(msg, km.Remove):
			return t.cancelInvite(it.invite)
		}
	case addItem:
		if key.Matches(msg, km.Select) {
			return t.createInvite()
		}
	case pfpItem:
		if key.Matches(msg, km.Select) {
			return t.pfp.Focus()
		}
	}
	return nil
}

func (t *TeamBar) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	z := t.common.Zone
	if t.editing {
		if z.Get(renameZone).InBounds(msg) {
			return nil
		}
		return t.Blur()
	}
	tm := t.team()
	if tm == nil {
		return nil
	}
	if z.Get(renameZone).InBounds(msg) {
		return t.startEditing()
	}
	if z.Get(addZone).InBounds(msg) {
		return t.createInvite()
	}
	for _, m := range tm.Members {
		if z.Get(memberZone(m.Email)).InBounds(msg) {
			return t.removeMember(m)
		}
	}
	for _, code := range tm.Invites {
		switch {
		case z.Get(copyZone(code)).InBounds(msg):
			return t.copyInvite(code)
		case z.Get(cancelZone(code)).InBounds(msg):
			return t.cancelInvite(code)
		}
	}
	return nil
}

func (t *TeamBar) removeMember(m api.User) tea.Cmd {
	tm := t.team()
	viewer := t.viewer()
	if t.common.Readonly() || team.MemberAction(tm, viewer, m) == team.None {
		return nil
	}
	ctx := t.common.Context()
	return common.MutateCmd(func() team.Result {
		return t.manager.RemoveMember(ctx, tm, viewer, m)
	})
}

func (t *TeamBar) createInvite() tea.Cmd {
	if !team.CanAddMember(t.team(), t.common.Readonly()) {
		return nil
	}
	ctx := t.common.Context()
	return common.MutateCmd(func() team.Result {
		return t.manager.CreateInvite(ctx)
	})
}

func (t *TeamBar) cancelInvite(code string) tea.Cmd {
	if !team.CanCancelInvite(t.common.Readonly()) {
		return nil
	}
	ctx := t.common.Context()
	return common.MutateCmd(func() team.Result {
		return t.manager.CancelInvite(ctx, code)
	})
}

func (t *TeamBar) inviteURL(code string) string {
	if c := t.common.Client(); c != nil {
		return c.InviteURL(code)
	}
	return code
}

func (t *TeamBar) copyInvite(code string) tea.Cmd {
	return copy.CopyCmd(t.common.Output, t.inviteURL(code), "Copied to clipboard")
}

// View implements tea.Model.
func (t *TeamBar) View() string {
	tm := t.team()
	if tm == nil {
		return ""
	}
	st := t.common.Styles
	readonly := t.common.Readonly()
	items := t.items()
	cursor := func(i int) string {
		if i == t.cursor && !t.editing {
			return st.Selector.String()
		}
		return "  "
	}

	rows := make([]string, 0, len(items)+1)
	for i, it := range items {
		switch it.kind {
		case nameItem:
			rows = append(rows, cursor(i)+t.nameView(tm, readonly))
		case memberItem:
			rows = append(rows, cursor(i)+t.memberView(tm, it.member, readonly, i == t.cursor))
		case inviteItem:
			rows = append(rows, cursor(i)+t.inviteView(it.invite, readonly, i == t.cursor))
		case addItem:
			style := st.Button
			if i == t.cursor {
				style = st.ButtonActive
			}
			rows = append(rows, cursor(i)+t.common.Zone.Mark(addZone, style.Render("+ "+team.CreateInvite.String())))
		case pfpItem:
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cursor(i), t.pfp.View()))
		}
	}
	if readonly {
		rows = append(rows, st.Readonly.Render("You are viewing another team."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (t *TeamBar) nameView(tm *api.Team, readonly bool) string {
	st := t.common.Styles
	if t.editing {
		return t.common.Zone.Mark(renameZone, t.name.View())
	}
	s := st.TeamName.Render(t.displayName(tm))
	if tm.Score != nil {
		s += st.TeamScore.Render(fmt.Sprintf("score %d", *tm.Score))
	}
	if team.CanRename(readonly) {
		s += " " + t.common.Zone.Mark(renameZone, st.Button.Render(team.Rename.String()))
	}
	if c := t.common.Client(); c != nil {
		s += "\n  " + st.TeamPfp.Render(c.PfpURL(tm.ID))
	}
	return s
}

func (t *TeamBar) memberView(tm *api.Team, m api.User, readonly, active bool) string {
	st := t.common.Styles
	name := m.DisplayName
	if name == "" {
		name = m.Email
	}
	row := st.MemberName.Render(common.TruncateString(name, st.MemberName.GetWidth()-1)) +
		st.MemberEmail.Render(common.TruncateString(m.Email, st.MemberEmail.GetWidth()-1))
	if tm.IsOwner(m.Email) {
		row += st.MemberOwner.String() + " "
	}
	if !readonly {
		if a := team.MemberAction(tm, t.viewer(), m); a != team.None {
			style := st.Button
			if active {
				style = st.ButtonActive
			}
			row += t.common.Zone.Mark(memberZone(m.Email), style.Render(a.String()))
		}
	}
	return row
}

func (t *TeamBar) inviteView(code string, readonly, active bool) string {
	st := t.common.Styles
	row := st.InviteLink.Render(t.inviteURL(code)) + " " +
		t.common.Zone.Mark(copyZone(code), st.Button.Render("Copy"))
	if team.CanCancelInvite(readonly) {
		style := st.Button
		if active {
			style = st.ButtonActive
		}
		row += t.common.Zone.Mark(cancelZone(code), style.Render(team.CancelInvite.String()))
	}
	return row
}
