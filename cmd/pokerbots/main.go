package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/cmd/pokerbots/bot"
	"github.com/upac/pokerbots/cmd/pokerbots/team"
	"github.com/upac/pokerbots/pkg/cache"
	"github.com/upac/pokerbots/pkg/cache/lru"
	_ "github.com/upac/pokerbots/pkg/cache/noop" // cache driver
	"github.com/upac/pokerbots/pkg/config"
	plog "github.com/upac/pokerbots/pkg/log"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	configPath string

	logFile *os.File

	rootCmd = &cobra.Command{
		Use:                "pokerbots",
		Short:              "Manage your pokerbots team from the command line",
		Long:               "pokerbots manages a team, its bots and its games on the pokerbots platform.",
		SilenceUsage:       true,
		PersistentPreRunE:  initContext,
		PersistentPostRunE: closeContext,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().Bool("json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "don't ask for confirmation")
	rootCmd.AddCommand(
		whoamiCmd,
		messageCmd,
		signoutCmd,
		team.Command,
		team.InviteCommand,
		bot.Command,
		pfpCmd,
		gamesCmd,
		watchCmd,
		uiCmd,
		manCmd,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetOut(os.Stdout)

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func initContext(c *cobra.Command, args []string) error {
	ctx := c.Context()

	cfg := config.DefaultConfig()
	if configPath != "" {
		if err := cfg.ParseFileAt(configPath); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.ParseEnv(); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
	} else if err := cfg.Parse(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	ctx = config.WithContext(ctx, cfg)

	logger, f, err := plog.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logFile = f

	// Set global logger
	log.SetDefault(logger)

	ctx = log.WithContext(ctx, logger)

	// Set up cache
	var cacheOpts []cache.Option
	cacheBackend := "noop"
	if cfg.Cache.Backend == "lru" {
		cacheOpts = append(cacheOpts, lru.WithSize(cfg.Cache.Size), lru.WithTTL(cfg.Cache.TTL.Std()))
		cacheBackend = "lru"
	}

	ca, err := cache.New(ctx, cacheBackend, cacheOpts...)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}

	ctx = cache.WithContext(ctx, ca)
	c.SetContext(ctx)

	return cmd.InitClientContext(c, args)
}

func closeContext(c *cobra.Command, args []string) error {
	err := cmd.CloseClientContext(c, args)
	if logFile != nil {
		logFile.Close() // nolint: errcheck
	}
	return err
}

func main() {
	// Set the max number of processes to the number of CPUs
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	if rootCmd.ExecuteContext(context.Background()) != nil {
		os.Exit(1)
	}
}
