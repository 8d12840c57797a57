package team

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
)

var (
	// Command returns a command for managing the team.
	Command = &cobra.Command{
		Use:     "team",
		Aliases: []string{"teams"},
		Short:   "Manage your team",
	}
)

func init() {
	Command.AddCommand(
		showCommand(),
		renameCommand(),
		kickCommand(),
		leaveCommand(),
		deleteCommand(),
		createCommand(),
		joinCommand(),
	)
}

// lookup returns the team with the given id argument, or the user's own
// team without one.
func lookup(ctx context.Context, args []string) (*api.Team, error) {
	if len(args) == 0 {
		return cmd.MyTeam(ctx)
	}
	id, err := cmd.ParseID(args[0])
	if err != nil {
		return nil, err
	}
	st := store.FromContext(ctx)
	if err := st.Select(ctx, &id); err != nil {
		return nil, err
	}
	t := st.Team().Value
	if t == nil {
		return nil, fmt.Errorf("there is no team with id %d", id)
	}
	return t, nil
}

func showCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "show [ID]",
		Short: "Show a team",
		Long:  "Show a team. Without an ID, show your own team.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			t, err := lookup(ctx, args)
			if err != nil {
				return err
			}

			client := api.FromContext(ctx)
			if cmd.IsJSON(c) {
				return cmd.WriteJSON(c.OutOrStdout(), t)
			}

			score := "-"
			if t.Score != nil {
				score = strconv.Itoa(*t.Score)
			}
			c.Println("Team:", t.Name)
			c.Println("ID:", t.ID)
			c.Println("Score:", score)
			c.Println("Owner:", t.Owner)
			c.Printf("Members (%d/%d):\n", t.Size(), api.MaxTeamSize)
			for _, m := range t.Members {
				line := strings.TrimSpace(fmt.Sprintf("%s <%s>", m.DisplayName, m.Email))
				if t.IsOwner(m.Email) {
					line += " (owner)"
				}
				c.Println("  -", line)
			}
			if len(t.Invites) > 0 {
				c.Println("Invites:")
				for _, code := range t.Invites {
					c.Println("  -", client.InviteURL(code))
				}
			}
			c.Println("Picture:", client.PfpURL(t.ID))
			c.Println("Page:", client.TeamURL(t.ID))
			return nil
		},
	}

	return command
}

func renameCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "rename NAME",
		Aliases: []string{"mv"},
		Short:   "Rename your team",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			t, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			return cmd.Mutation(c, cmd.Manager(c).Rename(ctx, t, name), "")
		},
	}

	return command
}

func kickCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "kick EMAIL",
		Short: "Remove a member from your team",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			return cmd.Mutation(c, cmd.Manager(c).Kick(ctx, args[0]), "Kicked "+args[0])
		},
	}

	return command
}

func leaveCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "leave",
		Short: "Leave your team",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.Mutation(c, cmd.Manager(c).Leave(c.Context()), "You left the team")
		},
	}

	return command
}

func deleteCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete your team",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.Mutation(c, cmd.Manager(c).Delete(c.Context()), "Team deleted")
		},
	}

	return command
}

func createCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return cmd.Mutation(c, cmd.Manager(c).CreateTeam(c.Context(), name), "")
		},
	}

	return command
}

func joinCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "join CODE",
		Short: "Join a team with an invite code or link",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Mutation(c, cmd.Manager(c).JoinTeam(c.Context(), args[0]), "")
		},
	}

	return command
}
