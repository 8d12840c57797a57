package bot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/upload"
)

var (
	// Command returns a command for managing bots.
	Command = &cobra.Command{
		Use:     "bot",
		Aliases: []string{"bots"},
		Short:   "Manage your team's bots",
	}
)

func init() {
	Command.AddCommand(
		listCommand(),
		uploadCommand(),
		activateCommand(),
		deleteCommand(),
	)
}

func listCommand() *cobra.Command {
	var teamID int64
	var filter string

	command := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bots",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			client := api.FromContext(ctx)

			var t *api.Team
			var err error
			if c.Flags().Changed("team") {
				st := store.FromContext(ctx)
				if err := st.Select(ctx, &teamID); err != nil {
					return err
				}
				if t = st.Team().Value; t == nil {
					return fmt.Errorf("there is no team with id %d", teamID)
				}
			} else if t, err = cmd.MyTeam(ctx); err != nil {
				return err
			}

			var g glob.Glob
			if filter != "" {
				g, err = glob.Compile(filter)
				if err != nil {
					return fmt.Errorf("invalid filter: %w", err)
				}
			}

			all, err := client.TeamBots(ctx, t.ID)
			if err != nil {
				return err
			}
			bots := make([]api.Bot, 0, len(all))
			for _, b := range all {
				if g == nil || g.Match(b.Name) {
					bots = append(bots, b)
				}
			}

			if cmd.IsJSON(c) {
				return cmd.WriteJSON(c.OutOrStdout(), bots)
			}
			if len(bots) == 0 {
				c.Println("No bots found")
				return nil
			}

			return tablewriter.Render(
				c.OutOrStdout(),
				bots,
				[]string{"", "ID", "Name", "Status", "Uploaded By", "Uploaded"},
				func(b api.Bot) ([]string, error) {
					active := ""
					if t.ActiveBot != nil && *t.ActiveBot == b.ID {
						active = "*"
					}
					return []string{
						active,
						strconv.FormatInt(b.ID, 10),
						b.Name,
						b.BuildStatus.String(),
						b.UploadedBy,
						humanize.Time(b.Uploaded()),
					}, nil
				},
			)
		},
	}

	command.Flags().Int64Var(&teamID, "team", 0, "list the bots of another team")
	command.Flags().StringVarP(&filter, "filter", "f", "", "only list bots whose name matches a glob")

	return command
}

// Upload uploads a file with an uploader wired to the command context.
func Upload(c *cobra.Command, kind upload.Kind, path string) (upload.Outcome, error) {
	ctx := c.Context()
	cfg := config.FromContext(ctx)
	u := upload.New(kind, api.FromContext(ctx), store.FromContext(ctx),
		upload.WithRefreshDelay(cfg.Upload.RefreshDelay.Std()))

	abs, err := filepath.Abs(path)
	if err != nil {
		return upload.Outcome{}, err
	}
	out := u.Upload(ctx, abs)
	if out.Err != nil {
		msg := kind.FailureMessage()
		if out.Notification != nil {
			msg = out.Notification.Message
		}
		return out, errors.New(msg)
	}
	return out, nil
}

func uploadCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := Upload(c, upload.Bot, args[0])
			if err != nil {
				return err
			}

			if cmd.IsJSON(c) {
				return cmd.WriteJSON(c.OutOrStdout(), out.Result)
			}
			if out.Result != nil && out.Result.ID != nil {
				c.Printf("Uploaded bot %d\n", *out.Result.ID)
				return nil
			}
			c.Println("Uploaded bot")
			return nil
		},
	}

	return command
}

func activateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "activate ID",
		Aliases: []string{"use"},
		Short:   "Make a bot your team's active bot",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := cmd.ParseID(args[0])
			if err != nil {
				return err
			}
			return cmd.Mutation(c, cmd.Manager(c).SetActiveBot(c.Context(), id), fmt.Sprintf("Bot %d is now active", id))
		},
	}

	return command
}

func deleteCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a bot",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := cmd.ParseID(args[0])
			if err != nil {
				return err
			}
			return cmd.Mutation(c, cmd.Manager(c).DeleteBot(c.Context(), id), fmt.Sprintf("Bot %d deleted", id))
		},
	}

	return command
}
