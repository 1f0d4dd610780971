package lobby

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

var Log = logrus.New()

var ErrNoSuchMatch = errors.New("no such match")

type Config struct {
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	Retention    time.Duration `env:"RETENTION" envDefault:"10m"`
}

func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second,
		Retention:    10 * time.Minute,
	}
}

// Match is a hosted match. Every engine call goes through Do, which
// serializes it with the match's tick loop.
type Match struct {
	mu        sync.Mutex
	coord     *match.Coordinator
	hub       *Broadcaster
	createdAt time.Time
	done      chan struct{}
}

func (m *Match) ID() uuid.UUID         { return m.coord.ID() }
func (m *Match) Events() *Broadcaster  { return m.hub }
func (m *Match) CreatedAt() time.Time  { return m.createdAt }
func (m *Match) Done() <-chan struct{} { return m.done }

func (m *Match) Do(fn func(*match.Coordinator) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.coord)
}

type Store struct {
	cfg Config
	ctx context.Context

	mu      sync.RWMutex
	matches map[uuid.UUID]*Match
	loops   map[uuid.UUID]context.CancelFunc
	wg      sync.WaitGroup
}

// NewStore creates an empty store. Tick loops live until ctx is cancelled or
// their match ends.
func NewStore(ctx context.Context, cfg Config) *Store {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	return &Store{
		cfg:     cfg,
		ctx:     ctx,
		matches: make(map[uuid.UUID]*Match),
		loops:   make(map[uuid.UUID]context.CancelFunc),
	}
}

/*
Host registers a coordinator, forwards its events to the match broadcaster and
starts its tick loop. Finished matches stay readable for the configured
retention.
*/
func (s *Store) Host(coord *match.Coordinator) *Match {
	m := &Match{
		coord:     coord,
		hub:       NewBroadcaster(),
		createdAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}
	s.wire(m)

	loopCtx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.matches[m.ID()] = m
	s.loops[m.ID()] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(loopCtx, m)
	}()

	Log.WithField("match", m.ID()).Info("hosting match")
	return m
}

func (s *Store) wire(m *Match) {
	hub := m.hub
	m.coord.OnStart(func() {
		hub.Publish(Event{Kind: EventStart, Stage: match.Running.String(), Remaining: m.coord.Remaining().Seconds()})
	})
	m.coord.OnHurryUp(func(remaining time.Duration) {
		hub.Publish(Event{Kind: EventHurry, Remaining: remaining.Seconds()})
	})
	m.coord.OnFinish(func(r match.Result) {
		hub.Publish(Event{Kind: EventFinish, Stage: match.Over.String(), Result: &r})
	})
	for _, sess := range m.coord.Sessions() {
		seat := sess.Index()
		sess.OnRoundResolved(func(e session.RoundResolved) {
			hub.Publish(Event{Kind: EventRound, Seat: &seat, Round: &e})
		})
		sess.OnFlagCountChanged(func(count int) {
			hub.Publish(Event{Kind: EventFlags, Seat: &seat, Flags: &count})
		})
	}
}

func (s *Store) run(ctx context.Context, m *Match) {
	log := Log.WithField("match", m.ID())
	defer close(m.done)

	last := time.Now()
	for {
		now := time.Now()
		var (
			wake time.Duration
			more bool
			ev   Event
		)
		err := m.Do(func(c *match.Coordinator) error {
			err := c.Tick(ctx, now.Sub(last))
			wake, more = c.NextWake()
			ev = Event{Kind: EventClock, Stage: c.Stage().String(), Remaining: c.Remaining().Seconds()}
			return err
		})
		last = now
		if err != nil {
			log.WithError(err).Error("match tick failed")
		}
		if !more {
			log.Debug("match loop finished")
			s.retire(m)
			return
		}
		m.hub.Publish(ev)

		timer := time.NewTimer(min(wake, s.cfg.TickInterval))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug("match loop cancelled")
			m.hub.Close()
			return
		case <-timer.C:
		}
	}
}

func (s *Store) retire(m *Match) {
	s.mu.Lock()
	delete(s.loops, m.ID())
	s.mu.Unlock()

	if s.cfg.Retention <= 0 {
		s.Remove(m.ID())
		return
	}
	time.AfterFunc(s.cfg.Retention, func() { s.Remove(m.ID()) })
}

func (s *Store) Get(id uuid.UUID) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNoSuchMatch
	}
	return m, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

// Remove drops a match, stopping its loop if it still runs.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	m, ok := s.matches[id]
	cancel := s.loops[id]
	delete(s.matches, id)
	delete(s.loops, id)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ok {
		m.hub.Close()
		Log.WithField("match", id).Debug("match removed")
	}
}

// Close stops every loop and waits for them to exit.
func (s *Store) Close() {
	s.mu.Lock()
	for id, cancel := range s.loops {
		cancel()
		delete(s.loops, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
