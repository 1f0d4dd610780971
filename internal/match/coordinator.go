package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

var Log = logrus.New()

const (
	MinPlayers = 2
	MaxPlayers = 4
)

var (
	ErrPlayerCount = fmt.Errorf("a match needs %d to %d players", MinPlayers, MaxPlayers)
	ErrNoTrack     = errors.New("match has no level track")
	ErrBadClock    = errors.New("invalid match timing")
	ErrNotRunning  = errors.New("match is not running")
	ErrNoSuchSeat  = errors.New("no such seat")
)

type Config struct {
	Length      time.Duration `env:"LENGTH" envDefault:"2m"`
	LeadIn      time.Duration `env:"LEAD_IN" envDefault:"3s"`
	HurryUp     time.Duration `env:"HURRY_UP" envDefault:"10s"`
	SnapshotDir string        `env:"SNAPSHOT_DIR"`
}

func DefaultConfig() Config {
	return Config{
		Length:  2 * time.Minute,
		LeadIn:  3 * time.Second,
		HurryUp: 10 * time.Second,
	}
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"length":      c.Length,
		"leadIn":      c.LeadIn,
		"hurryUp":     c.HurryUp,
		"snapshotDir": c.SnapshotDir,
	}
}

type Player struct {
	Identity      string `json:"identity"`
	StartingScore int    `json:"starting_score"`
}

/*
Coordinator runs one match: it owns a session per player, drives the match
clock, and when time runs out freezes every session, ranks the players and
hands the result to the reporter. It is not safe for concurrent use; callers
serialize ticks and player input.
*/
type Coordinator struct {
	id       uuid.UUID
	clock    Clock
	sessions []*session.Session
	reporter Reporter
	result   *Result

	startObservers  []func()
	hurryObservers  []func(remaining time.Duration)
	finishObservers []func(Result)
}

func New(cfg Config, players []Player, track *levels.Track, rng *rand.Rand, reporter Reporter) (*Coordinator, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, fmt.Errorf("%w, got %d", ErrPlayerCount, len(players))
	}
	if track == nil {
		return nil, ErrNoTrack
	}
	if cfg.Length <= 0 || cfg.LeadIn < 0 || cfg.HurryUp < 0 {
		return nil, fmt.Errorf("%w: length %s, lead-in %s, hurry-up %s",
			ErrBadClock, cfg.Length, cfg.LeadIn, cfg.HurryUp)
	}
	if reporter == nil {
		reporter = LogReporter{Log: Log}
	}

	c := &Coordinator{
		id: uuid.New(),
		clock: Clock{
			LeadIn:  cfg.LeadIn,
			Length:  cfg.Length,
			HurryUp: cfg.HurryUp,
		},
		reporter: reporter,
	}
	for i, p := range players {
		opts := []session.Option{session.WithStartingScore(p.StartingScore)}
		if cfg.SnapshotDir != "" {
			opts = append(opts, session.WithSnapshotDir(cfg.SnapshotDir))
		}
		c.sessions = append(c.sessions, session.New(i, p.Identity, track, rng, opts...))
	}

	Log.WithField("match", c.id).WithFields(cfg.Fields()).Debug("match created")
	return c, nil
}

func (c *Coordinator) ID() uuid.UUID                   { return c.id }
func (c *Coordinator) Stage() Stage                    { return c.clock.Stage() }
func (c *Coordinator) Remaining() time.Duration        { return c.clock.Remaining() }
func (c *Coordinator) CountdownLeft() time.Duration    { return c.clock.CountdownLeft() }
func (c *Coordinator) HurriedUp() bool                 { return c.clock.HurriedUp() }
func (c *Coordinator) NextWake() (time.Duration, bool) { return c.clock.NextWake() }
func (c *Coordinator) Sessions() []*session.Session    { return c.sessions }

// Result is set once the match is over.
func (c *Coordinator) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

func (c *Coordinator) OnStart(fn func()) {
	c.startObservers = append(c.startObservers, fn)
}

func (c *Coordinator) OnHurryUp(fn func(remaining time.Duration)) {
	c.hurryObservers = append(c.hurryObservers, fn)
}

func (c *Coordinator) OnFinish(fn func(Result)) {
	c.finishObservers = append(c.finishObservers, fn)
}

func (c *Coordinator) Seat(index int) (*session.Session, error) {
	if index < 0 || index >= len(c.sessions) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSeat, index)
	}
	return c.sessions[index], nil
}

// Play applies one input to a seat's session. Input is only accepted while
// the match is running.
func (c *Coordinator) Play(seat int, input func(*session.Session) bool) (bool, error) {
	s, err := c.Seat(seat)
	if err != nil {
		return false, err
	}
	if c.Stage() != Running {
		return false, ErrNotRunning
	}
	return input(s), nil
}

// Standings lists current scores in seat order.
func (c *Coordinator) Standings() []Standing {
	standings := make([]Standing, len(c.sessions))
	for i, s := range c.sessions {
		standings[i] = Standing{PlayerIndex: s.Index(), Identity: s.Identity(), Score: s.Score()}
	}
	return standings
}

/*
Tick advances the match clock by elapsed. Once the clock runs out every
session is frozen, the players are ranked and the result is reported; the
reporter's error is returned. Ticks after that do nothing.
*/
func (c *Coordinator) Tick(ctx context.Context, elapsed time.Duration) error {
	t := c.clock.Advance(elapsed)
	log := Log.WithField("match", c.id)

	if t.Started {
		log.Debug("match started")
		for _, fn := range c.startObservers {
			fn()
		}
	}
	if t.HurryUp {
		log.WithField("remaining", c.clock.Remaining()).Debug("hurry up")
		for _, fn := range c.hurryObservers {
			fn(c.clock.Remaining())
		}
	}
	if t.Expired {
		return c.finish(ctx)
	}
	return nil
}

func (c *Coordinator) finish(ctx context.Context) error {
	for _, s := range c.sessions {
		s.Freeze()
	}
	result := Result{
		MatchID:    c.id,
		Placements: Rank(c.Standings()),
	}
	c.result = &result

	Log.WithFields(logrus.Fields{
		"match":      c.id,
		"placements": result.Placements,
	}).Info("match finished")

	for _, fn := range c.finishObservers {
		fn(result)
	}
	if err := c.reporter.Report(ctx, result); err != nil {
		return fmt.Errorf("unable to report match %s: %w", c.id, err)
	}
	return nil
}
