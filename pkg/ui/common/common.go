package common

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/ui/keymap"
	"github.com/upac/pokerbots/pkg/ui/styles"
)

// Common is a struct all components should embed.
type Common struct {
	ctx           context.Context
	Width, Height int
	Styles        *styles.Styles
	KeyMap        *keymap.KeyMap
	Zone          *zone.Manager
	Renderer      *lipgloss.Renderer
	Output        *termenv.Output
	Logger        *log.Logger
}

// NewCommon returns a new Common struct.
func NewCommon(ctx context.Context, out *lipgloss.Renderer, width, height int) Common {
	if ctx == nil {
		ctx = context.TODO()
	}
	return Common{
		ctx:      ctx,
		Width:    width,
		Height:   height,
		Renderer: out,
		Output:   out.Output(),
		Styles:   styles.DefaultStyles(out),
		KeyMap:   keymap.DefaultKeyMap(),
		Zone:     zone.New(),
		Logger:   log.FromContext(ctx).WithPrefix("ui"),
	}
}

// SetValue sets a value in the context.
func (c *Common) SetValue(key, value interface{}) {
	c.ctx = context.WithValue(c.ctx, key, value)
}

// SetSize sets the width and height of the common struct.
func (c *Common) SetSize(width, height int) {
	c.Width = width
	c.Height = height
}

// Context returns the context.
func (c *Common) Context() context.Context {
	return c.ctx
}

// Config returns the client config.
func (c *Common) Config() *config.Config {
	return config.FromContext(c.ctx)
}

// Client returns the API client.
func (c *Common) Client() *api.Client {
	return api.FromContext(c.ctx)
}

// Store returns the session store.
func (c *Common) Store() *store.Store {
	return store.FromContext(c.ctx)
}

// Readonly reports whether the displayed team belongs to someone else.
func (c *Common) Readonly() bool {
	if s := c.Store(); s != nil {
		return s.Readonly()
	}
	return true
}
