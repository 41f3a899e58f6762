// Package clock provides the time source injected into the engine so that
// version and timestamp stamping is deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the process clock, normalized to UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Advance moves it forward, which
// lets tests observe updated_at changes across mutations.
type Fixed struct {
	T time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{T: t.UTC()} }

func (f *Fixed) Now() time.Time { return f.T }

func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
