package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		log.Info("starting up, mode = ", cfg.Mode)
		log.WithFields(cfg.Fields()).Debug("config")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(cfg, log, migrations)
		if err != nil {
			return err
		}
		if err := a.Start(ctx); err != nil {
			log.WithError(err).Error("server stopped")
			return err
		}
		log.Info("bye")
		return nil
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "address to listen on")
	flags.String("base-path", "", "prefix for every route, e.g. /api")

	v.BindPFlag("addr", flags.Lookup("addr"))
	v.BindPFlag("base_path", flags.Lookup("base-path"))

	rootCmd.AddCommand(serveCmd)
}
