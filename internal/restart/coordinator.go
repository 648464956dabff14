// Package restart turns "the theme changed" into a request to restart the
// process, which is how a saved theme takes effect. The package only emits
// requests; acting on them is left to the caller.
package restart

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Mode selects what the serve command does with an ApplyRequest.
type Mode string

const (
	// ModeExit shuts down and exits 0 so a supervisor starts a fresh process.
	ModeExit Mode = "exit"
	// ModeExec replaces the running process with a new copy of itself.
	ModeExec Mode = "exec"
	// ModeNone only logs the request.
	ModeNone Mode = "none"
)

// Modes lists every restart mode.
func Modes() []Mode {
	return []Mode{ModeExit, ModeExec, ModeNone}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown restart mode %q", s)
}

// DefaultDelay gives the HTTP response time to reach the client before the
// process goes away.
const DefaultDelay = 500 * time.Millisecond

// ApplyRequest asks for the process to restart so a committed theme is
// picked up on the next boot.
type ApplyRequest struct {
	ID          ulid.ULID `json:"id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// Coordinator delays and coalesces apply requests. Requests made while one
// is pending share it; delivery happens once the delay has passed.
type Coordinator struct {
	delay  time.Duration
	mode   Mode
	logger *slog.Logger

	mu       sync.Mutex
	pending  *ApplyRequest
	timer    *time.Timer
	stopped  bool
	requests chan ApplyRequest
}

// New creates a Coordinator. A negative delay is treated as zero.
func New(delay time.Duration, mode Mode) *Coordinator {
	if delay < 0 {
		delay = 0
	}
	return &Coordinator{
		delay:    delay,
		mode:     mode,
		logger:   slog.Default(),
		requests: make(chan ApplyRequest, 1),
	}
}

// WithLogger sets the logger for the coordinator.
func (c *Coordinator) WithLogger(logger *slog.Logger) *Coordinator {
	c.logger = logger
	return c
}

// Mode returns the configured restart mode.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// Delay returns the configured delivery delay.
func (c *Coordinator) Delay() time.Duration {
	return c.delay
}

// Requests delivers apply requests once their delay has passed.
func (c *Coordinator) Requests() <-chan ApplyRequest {
	return c.requests
}

// Request schedules an apply. If one is already pending it is returned
// instead and reason is dropped. After Stop, the request is returned but
// never delivered.
func (c *Coordinator) Request(reason string) ApplyRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.logger.Debug("apply request coalesced",
			slog.String("id", c.pending.ID.String()),
			slog.String("reason", reason),
		)
		return *c.pending
	}

	req := ApplyRequest{
		ID:          ulid.Make(),
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
	if c.stopped {
		c.logger.Warn("apply requested after stop", slog.String("reason", reason))
		return req
	}

	c.pending = &req
	c.timer = time.AfterFunc(c.delay, c.deliver)

	c.logger.Info("apply requested",
		slog.String("id", req.ID.String()),
		slog.String("reason", reason),
		slog.Duration("delay", c.delay),
		slog.String("mode", string(c.mode)),
	)
	return req
}

// Pending returns the request waiting for its delay, if any.
func (c *Coordinator) Pending() (ApplyRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ApplyRequest{}, false
	}
	return *c.pending, true
}

func (c *Coordinator) deliver() {
	c.mu.Lock()
	req := c.pending
	c.pending = nil
	c.timer = nil
	stopped := c.stopped
	c.mu.Unlock()

	if req == nil || stopped {
		return
	}

	select {
	case c.requests <- *req:
	default:
		// An earlier request has not been consumed yet; it covers this one.
		c.logger.Debug("apply already queued", slog.String("id", req.ID.String()))
	}
}

// Stop cancels a pending request. Requests made afterwards are not delivered.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
}
