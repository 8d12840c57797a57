package confirm_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/ui/common"
	"github.com/upac/pokerbots/pkg/ui/components/confirm"
	"github.com/upac/pokerbots/pkg/ui/uitest"
)

type answer struct {
	ok  bool
	err error
}

func newConfirm() (*confirm.Confirm, *confirm.Bridge) {
	c := common.NewCommon(context.Background(), lipgloss.NewRenderer(io.Discard), 80, 24)
	b := confirm.NewBridge()
	return confirm.New(c, b), b
}

func ask(b *confirm.Bridge, ctx context.Context, prompt string) <-chan answer {
	ch := make(chan answer, 1)
	go func() {
		ok, err := b.Confirm(ctx, prompt)
		ch <- answer{ok, err}
	}()
	return ch
}

func TestConfirmYes(t *testing.T) {
	is := is.New(t)
	m, b := newConfirm()
	done := ask(b, context.Background(), "Are you sure you want to leave the team?")

	m.Update(m.Init()())
	is.True(m.Active())
	is.Equal(m.Prompt(), "Are you sure you want to leave the team?")
	is.True(strings.Contains(m.View(), "leave the team"))

	_, cmd := m.Update(uitest.Key("y"))
	is.True(cmd != nil)
	is.True(!m.Active())
	is.Equal(m.View(), "")
	a := <-done
	is.NoErr(a.err)
	is.True(a.ok)
}

func TestConfirmNo(t *testing.T) {
	is := is.New(t)
	m, b := newConfirm()
	done := ask(b, context.Background(), "Are you sure you want to delete this bot?")

	m.Update(m.Init()())
	m.Update(uitest.Key("esc"))
	a := <-done
	is.NoErr(a.err)
	is.True(!a.ok)
}

func TestConfirmIgnoresKeysWhenIdle(t *testing.T) {
	is := is.New(t)
	m, _ := newConfirm()
	_, cmd := m.Update(uitest.Key("y"))
	is.True(cmd == nil)
	is.True(!m.Active())
}

func TestConfirmContextDone(t *testing.T) {
	is := is.New(t)
	_, b := newConfirm()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ok, err := b.Confirm(ctx, "nobody listens")
	is.True(!ok)
	is.True(errors.Is(err, context.DeadlineExceeded))
}

func TestConfirmClosed(t *testing.T) {
	is := is.New(t)
	m, b := newConfirm()
	b.Close()
	b.Close()
	ok, err := b.Confirm(context.Background(), "closed")
	is.True(!ok)
	is.True(errors.Is(err, confirm.ErrClosed))
	is.Equal(m.Init()(), nil)
}
