package match

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Result struct {
	MatchID    uuid.UUID   `json:"match_id"`
	Placements []Placement `json:"placements"`
}

// Award is what the external progression system gets for one player.
type Award struct {
	PlayerIndex int
	Points      int
}

func (r Result) Awards() []Award {
	awards := make([]Award, len(r.Placements))
	for i, p := range r.Placements {
		awards[i] = Award{PlayerIndex: p.PlayerIndex, Points: p.Points}
	}
	return awards
}

// Reporter delivers a finished match to whatever keeps long-term standings.
type Reporter interface {
	Report(ctx context.Context, result Result) error
}

type ReporterFunc func(ctx context.Context, result Result) error

func (f ReporterFunc) Report(ctx context.Context, result Result) error {
	return f(ctx, result)
}

// LogReporter only logs results. It is used when no database is configured.
type LogReporter struct {
	Log *logrus.Logger
}

func (r LogReporter) Report(ctx context.Context, result Result) error {
	log := r.Log
	if log == nil {
		log = Log
	}
	for _, p := range result.Placements {
		log.WithFields(logrus.Fields{
			"match":    result.MatchID,
			"player":   p.PlayerIndex,
			"identity": p.Identity,
			"score":    p.Score,
			"place":    p.Place,
			"points":   p.Points,
		}).Info("match result")
	}
	return nil
}
