package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-rush/internal/app"
	"github.com/vancomm/minesweeper-rush/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve matches over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewApp()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if track, _ := cmd.Flags().GetString("track"); track != "" {
			cfg.TrackPath = track
		}
		if err := setupLogging(cfg.LogFile); err != nil {
			return err
		}
		log.WithFields(cfg.Fields()).Debug("config")

		ctx, stop := signal.NotifyContext(
			context.Background(),
			os.Interrupt, syscall.SIGTERM,
		)
		defer stop()

		if err := app.New(log, cfg, migrations).Start(ctx); err != nil {
			log.Errorf("exit reason: %s", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides RUSH_ADDR)")
	serveCmd.Flags().StringP("track", "f", "", "level track file (overrides RUSH_TRACK)")
}
