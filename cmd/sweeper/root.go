package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
)

var (
	configPath string
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Minesweeper board engine and game server",
	Long: `sweeper hosts minesweeper games over HTTP and websockets, or plays
one in the terminal.

Serve games, keeping highscores in postgres when a database is configured
	sweeper serve --config config.yaml

Play a beginner board locally
	sweeper play -r 9 -c 9 -m 10
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup reads the configuration and builds the logger every command uses.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	mines.Log = log
	return cfg, log, nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (yaml or json)")
	flags.String("mode", "development", "development or production")
	flags.String("log-level", "", "log level, overrides the mode default")
	flags.String("database-url", "", "postgres url, scores are kept in memory when empty")

	v.BindPFlag("mode", flags.Lookup("mode"))
	v.BindPFlag("log.level", flags.Lookup("log-level"))
	v.BindPFlag("database.url", flags.Lookup("database-url"))
}
