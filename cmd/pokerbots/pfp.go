package main

import (
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/cmd/pokerbots/bot"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/upload"
)

var pfpCmd = &cobra.Command{
	Use:     "pfp",
	Aliases: []string{"picture"},
	Short:   "Manage your team picture",
}

func init() {
	pfpCmd.AddCommand(
		&cobra.Command{
			Use:   "upload FILE",
			Short: "Upload a team picture",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				if _, err := bot.Upload(c, upload.Pfp, args[0]); err != nil {
					return err
				}
				c.Println("Team picture updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "url [ID]",
			Short: "Print the URL of a team picture",
			Long:  "Print the URL of a team picture. Without an ID, use your own team.",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				ctx := c.Context()
				var id int64
				if len(args) == 1 {
					var err error
					if id, err = cmd.ParseID(args[0]); err != nil {
						return err
					}
				} else {
					t, err := cmd.MyTeam(ctx)
					if err != nil {
						return err
					}
					id = t.ID
				}
				c.Println(api.FromContext(ctx).PfpURL(id))
				return nil
			},
		},
	)
}
