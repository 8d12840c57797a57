package team

import (
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/team"
	"github.com/upac/pokerbots/pkg/ui/components/copy"
)

// InviteCommand returns a command for managing team invites.
var InviteCommand = &cobra.Command{
	Use:     "invite",
	Aliases: []string{"invites"},
	Short:   "Manage your team invites",
}

func init() {
	InviteCommand.AddCommand(
		inviteCreateCommand(),
		inviteCancelCommand(),
		inviteListCommand(),
		inviteCopyCommand(),
	)
}

type invite struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

func inviteCreateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "create",
		Short: "Create an invite link",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			before, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(before.Invites))
			for _, code := range before.Invites {
				known[code] = true
			}

			if err := cmd.Mutation(c, cmd.Manager(c).CreateInvite(ctx), ""); err != nil {
				return err
			}

			after, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}
			client := api.FromContext(ctx)
			for _, code := range after.Invites {
				if !known[code] {
					if cmd.IsJSON(c) {
						return cmd.WriteJSON(c.OutOrStdout(), invite{Code: code, URL: client.InviteURL(code)})
					}
					c.Println(client.InviteURL(code))
				}
			}
			return nil
		},
	}

	return command
}

func inviteCancelCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "cancel CODE",
		Aliases: []string{"rm", "revoke"},
		Short:   "Cancel an invite",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			code := team.InviteCode(args[0])
			return cmd.Mutation(c, cmd.Manager(c).CancelInvite(c.Context(), code), "Invitation cancelled")
		},
	}

	return command
}

func inviteListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending invites",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			t, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}

			client := api.FromContext(ctx)
			invites := make([]invite, 0, len(t.Invites))
			for _, code := range t.Invites {
				invites = append(invites, invite{Code: code, URL: client.InviteURL(code)})
			}

			if cmd.IsJSON(c) {
				return cmd.WriteJSON(c.OutOrStdout(), invites)
			}
			if len(invites) == 0 {
				c.Println("No pending invites")
				return nil
			}
			for _, inv := range invites {
				c.Println(inv.URL)
			}
			return nil
		},
	}

	return command
}

func inviteCopyCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "copy CODE",
		Short: "Copy an invite link to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			url := api.FromContext(ctx).InviteURL(team.InviteCode(args[0]))
			if err := copy.Copy(c.ErrOrStderr(), url); err != nil {
				return err
			}
			c.PrintErrln("Copied to clipboard")
			c.Println(url)
			return nil
		},
	}

	return command
}
