package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
)

type App struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	BasePath  string `env:"BASE_PATH"`
	TrackPath string `env:"TRACK"`
	LogFile   string `env:"LOG_FILE"`

	Match match.Config `envPrefix:"MATCH_"`
	Lobby lobby.Config `envPrefix:"LOBBY_"`
}

// NewApp reads RUSH_* variables.
func NewApp() (*App, error) {
	var cfg App
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "RUSH_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Match.HurryUp > cfg.Match.Length {
		return nil, fmt.Errorf("hurry-up %s is longer than the match (%s)", cfg.Match.HurryUp, cfg.Match.Length)
	}
	return &cfg, nil
}

func (c App) Fields() logrus.Fields {
	fields := logrus.Fields{
		"addr":      c.Addr,
		"basePath":  c.BasePath,
		"track":     c.TrackPath,
		"logFile":   c.LogFile,
		"tick":      c.Lobby.TickInterval,
		"retention": c.Lobby.Retention,
	}
	for k, v := range c.Match.Fields() {
		fields["match."+k] = v
	}
	return fields
}
