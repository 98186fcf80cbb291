package clock

import (
	"sync"
	"time"
)

// Clocker abstracts time so usecases can be driven by a fixed instant in tests.
type Clocker interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

// New returns the system clock.
func New() *System {
	return &System{}
}

// Now returns the current time in UTC.
func (*System) Now() time.Time {
	return time.Now().UTC()
}

// Manual is a Clocker whose time only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock frozen at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set jumps the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
