package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		u, err := cmd.Me(ctx)
		if err != nil {
			return err
		}

		if cmd.IsJSON(c) {
			return cmd.WriteJSON(c.OutOrStdout(), u)
		}

		c.Println("Name:", u.DisplayName)
		c.Println("Email:", u.Email)
		return nil
	},
}

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Print the server announcement",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		msg, err := api.FromContext(ctx).ServerMessage(ctx)
		if err != nil {
			return err
		}

		if cmd.IsJSON(c) {
			return cmd.WriteJSON(c.OutOrStdout(), map[string]string{"message": msg})
		}

		if msg = strings.TrimSpace(msg); msg != "" {
			c.Println(msg)
		}
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the current session on the platform",
	Long: `End the current session on the platform.
The session cookie stops working; remove api.session from the config to stop sending it.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		if _, err := cmd.Me(ctx); err != nil {
			return err
		}
		if err := api.FromContext(ctx).SignOut(ctx); err != nil {
			return err
		}
		c.Println("Signed out")
		return nil
	},
}
