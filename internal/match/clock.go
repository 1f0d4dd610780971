package match

import "time"

type Stage int

const (
	LeadIn Stage = iota
	Running
	Over
)

func (s Stage) String() string {
	switch s {
	case LeadIn:
		return "lead-in"
	case Running:
		return "running"
	case Over:
		return "over"
	default:
		return "invalid"
	}
}

// Clock holds the timing state of a match: a lead-in countdown during which
// nobody plays, the match itself, and a hurry-up warning near its end. It
// knows nothing about players; the coordinator advances it and reacts to what
// Advance reports.
type Clock struct {
	LeadIn  time.Duration
	Length  time.Duration
	HurryUp time.Duration

	elapsed time.Duration
	started bool
	hurried bool
	expired bool
}

// Transitions reports which clock edges the last Advance crossed. Several
// can fire at once when a single step is long.
type Transitions struct {
	Started bool
	HurryUp bool
	Expired bool
}

func (t Transitions) Any() bool {
	return t.Started || t.HurryUp || t.Expired
}

// Advance moves the clock forward by d. Negative steps are ignored. Every
// edge is reported exactly once.
func (c *Clock) Advance(d time.Duration) (t Transitions) {
	if c.expired {
		return
	}
	if d > 0 {
		c.elapsed += d
	}
	if !c.started && c.elapsed >= c.LeadIn {
		c.started = true
		t.Started = true
	}
	if c.started && !c.hurried && c.Remaining() <= c.HurryUp {
		c.hurried = true
		t.HurryUp = true
	}
	if c.started && c.Remaining() == 0 {
		c.expired = true
		t.Expired = true
	}
	return
}

func (c *Clock) Stage() Stage {
	switch {
	case c.expired:
		return Over
	case c.started:
		return Running
	default:
		return LeadIn
	}
}

func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// CountdownLeft is the time until play begins.
func (c *Clock) CountdownLeft() time.Duration {
	return max(0, c.LeadIn-c.elapsed)
}

// Remaining is the play time left. It is the full length during the lead-in.
func (c *Clock) Remaining() time.Duration {
	return max(0, min(c.Length, c.LeadIn+c.Length-c.elapsed))
}

func (c *Clock) HurriedUp() bool {
	return c.hurried
}

// NextWake returns how long until the next edge, and false once the clock is
// over.
func (c *Clock) NextWake() (time.Duration, bool) {
	switch {
	case c.expired:
		return 0, false
	case !c.started:
		return c.CountdownLeft(), true
	case !c.hurried:
		return c.Remaining() - c.HurryUp, true
	default:
		return c.Remaining(), true
	}
}
