package transition

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/plugin"
)

// Runtime schedules one in-flight clip-to-clip transition at a time per
// playlist: it tracks elapsed time against the transition's duration,
// easing-warps the resulting progress, and drives the transition
// plugin's Blend every tick.
type Runtime struct {
	mu     sync.Mutex
	active *session
}

type session struct {
	plugin     plugin.Transition
	easing     Easing
	duration   time.Duration
	start      time.Time
	outgoingID uuid.UUID
	incomingID uuid.UUID
}

// NewRuntime returns an idle Runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// ErrAlreadyActive is returned by Start when a transition is already
// in flight; only one transition runs at a time per Runtime.
var ErrAlreadyActive = fmt.Errorf("transition: already in progress")

// Start begins a new transition between outgoing and incoming clips.
func (r *Runtime) Start(t plugin.Transition, outgoing, incoming uuid.UUID, durationS float64, easing Easing, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return ErrAlreadyActive
	}
	if durationS <= 0 {
		durationS = t.DurationSeconds()
	}
	r.active = &session{
		plugin:     t,
		easing:     easing,
		duration:   time.Duration(durationS * float64(time.Second)),
		start:      now,
		outgoingID: outgoing,
		incomingID: incoming,
	}
	return nil
}

// Active reports whether a transition is currently in flight, and its
// outgoing/incoming clip ids if so.
func (r *Runtime) Active() (outgoing, incoming uuid.UUID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return r.active.outgoingID, r.active.incomingID, true
}

// Tick blends outgoingFrame and incomingFrame at the current progress.
// complete reports true once progress has reached 1 and the runtime has
// released the outgoing clip; the caller should stop requesting frames
// from it after that point.
func (r *Runtime) Tick(outgoingFrame, incomingFrame *frame.Frame, now time.Time) (blended *frame.Frame, complete bool, err error) {
	r.mu.Lock()
	s := r.active
	r.mu.Unlock()

	if s == nil {
		return nil, true, fmt.Errorf("transition: no active transition")
	}

	raw := 1.0
	if s.duration > 0 {
		raw = float64(now.Sub(s.start)) / float64(s.duration)
	}
	progress := clamp01(raw)
	eased := s.easing.Apply(progress)

	blended, err = s.plugin.Blend(outgoingFrame, incomingFrame, eased)
	if err != nil {
		return nil, false, fmt.Errorf("transition: blend failed: %w", err)
	}

	if progress >= 1 {
		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()
		return blended, true, nil
	}
	return blended, false, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
