package render

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const tickInterval = 80 * time.Millisecond

// Tracker coordinates the terminal progress indicator. At most one indicator
// is active at a time, and stopping blocks until the line is cleared, so tool
// results never interleave with a redraw.
type Tracker struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	active  *Handle
}

// NewTracker builds a tracker writing to out. A disabled tracker hands out
// inert handles, which keeps call sites identical in quiet and JSON modes.
func NewTracker(out io.Writer, enabled bool) *Tracker {
	return &Tracker{out: out, enabled: enabled}
}

// Begin starts an indicator with the given label and returns its handle. The
// caller must arrange for Stop on every exit path, normally via defer.
func (t *Tracker) Begin(label string) *Handle {
	if t == nil || !t.enabled {
		return &Handle{}
	}

	t.mu.Lock()
	prev := t.active
	s := spinner.New(spinner.CharSets[14], tickInterval, spinner.WithWriter(t.out))
	s.Suffix = " " + label
	handle := &Handle{spinner: s, tracker: t}
	t.active = handle
	t.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	s.Start()
	return handle
}

// Handle is a scoped token for one active indicator. Stop is idempotent and
// safe on the zero value, so an early error return can never leave the
// spinner drawing over subsequent output.
type Handle struct {
	once    sync.Once
	spinner *spinner.Spinner
	tracker *Tracker
}

// Stop clears the indicator. It returns only after the line has been erased.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.spinner == nil {
			return
		}
		h.spinner.Stop()
		h.tracker.mu.Lock()
		if h.tracker.active == h {
			h.tracker.active = nil
		}
		h.tracker.mu.Unlock()
	})
}
