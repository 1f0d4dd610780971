package main

import (
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/database"
	"github.com/vancomm/minesweeper-rush/internal/handlers"
	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/mines"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "rushd",
	Short: "Host competitive minesweeper rush matches",
	Long: `rushd hosts minesweeper rush matches: 2 to 4 players race on their own
boards, climbing a level track on every clear and dropping on every mine.

Serve matches over HTTP and websockets
	rushd serve

Inspect a level track
	rushd track -f track.yaml
`,
	SilenceUsage: true,
}

// setupLogging points every package logger at the same level, formatter and
// hooks.
func setupLogging(logFile string) error {
	level := config.LogLevel()
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if config.Development() {
		formatter = &logrus.TextFormatter{ForceColors: true}
	}

	var hook logrus.Hook
	if logFile != "" {
		var err error
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
	}

	for _, l := range []*logrus.Logger{
		log, mines.Log, session.Log, match.Log, lobby.Log, handlers.Log, database.Log,
	} {
		l.SetLevel(level)
		l.SetFormatter(formatter)
		if hook != nil {
			l.AddHook(hook)
		}
	}
	return nil
}

func main() {
	rootCmd.AddCommand(serveCmd, trackCmd, replayCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
