package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/cache"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/team"
)

var (
	// ErrNotLoggedIn is returned by commands that need a session when the
	// platform doesn't recognize one.
	ErrNotLoggedIn = errors.New("not logged in: set api.session in the config or POKERBOTS_API_SESSION")

	// ErrNoTeam is returned by commands that act on the user's own team
	// when the user isn't on one.
	ErrNoTeam = errors.New("you are not on a team")
)

// InitClientContext creates the API client and the store and puts them in
// the command context.
func InitClientContext(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return config.ErrNilConfig
	}

	var opts []api.Option
	if ca := cache.FromContext(ctx); ca != nil {
		opts = append(opts, api.WithCache(ca))
	}
	client, err := api.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	ctx = api.WithContext(ctx, client)
	ctx = store.WithContext(ctx, store.New(client))
	c.SetContext(ctx)

	return nil
}

// CloseClientContext closes the store.
func CloseClientContext(c *cobra.Command, _ []string) error {
	if st := store.FromContext(c.Context()); st != nil {
		return st.Close()
	}
	return nil
}

// IsJSON reports whether the command should write JSON.
func IsJSON(c *cobra.Command) bool {
	f := c.Flag("json")
	return f != nil && f.Value.String() == "true"
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Confirmer returns the confirmer for destructive commands. With --yes it
// confirms everything; otherwise it asks on the terminal.
func Confirmer(c *cobra.Command) team.Confirmer {
	if f := c.Flag("yes"); f != nil && f.Value.String() == "true" {
		return team.AlwaysConfirm
	}
	return team.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		return Ask(c.InOrStdin(), c.ErrOrStderr(), prompt)
	})
}

// Ask writes prompt and reads a y/n answer. Anything but yes declines.
func Ask(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt) // nolint: errcheck
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Manager returns a team manager for the command.
func Manager(c *cobra.Command) *team.Manager {
	ctx := c.Context()
	return team.NewManager(api.FromContext(ctx), store.FromContext(ctx), Confirmer(c))
}

// ParseID parses a numeric id argument.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Me returns the logged in user.
func Me(ctx context.Context) (*api.User, error) {
	st := store.FromContext(ctx)
	if err := st.RefreshUser(ctx); err != nil {
		return nil, err
	}
	u := st.User().Value
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// MyTeam returns the logged in user's team.
func MyTeam(ctx context.Context) (*api.Team, error) {
	st := store.FromContext(ctx)
	if err := st.RefreshMyTeam(ctx); err != nil {
		return nil, err
	}
	t := st.MyTeam().Value
	if t == nil {
		return nil, ErrNoTeam
	}
	return t, nil
}

// Mutation turns a mutation result into the command error.
func Mutation(c *cobra.Command, res team.Result, done string) error {
	if res.Cancelled() {
		return team.ErrCancelled
	}
	if res.Err != nil {
		return errors.New(res.Message())
	}
	if done != "" {
		c.Println(done)
	}
	return nil
}
