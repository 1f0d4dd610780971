package lobby

import (
	"sync"

	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

type EventKind string

const (
	EventClock  EventKind = "clock"
	EventStart  EventKind = "start"
	EventHurry  EventKind = "hurry_up"
	EventRound  EventKind = "round"
	EventFlags  EventKind = "flags"
	EventFinish EventKind = "finish"
)

type Event struct {
	Kind      EventKind              `json:"kind"`
	Seat      *int                   `json:"seat,omitempty"`
	Stage     string                 `json:"stage,omitempty"`
	Remaining float64                `json:"remaining,omitempty"`
	Flags     *int                   `json:"flags,omitempty"`
	Round     *session.RoundResolved `json:"round,omitempty"`
	Result    *match.Result          `json:"result,omitempty"`
}

// Broadcaster fans match events out to websocket subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber. The channel is closed on Unsubscribe
// or when the broadcaster is closed.
func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish never blocks: a subscriber that is lagging misses the event.
func (b *Broadcaster) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
