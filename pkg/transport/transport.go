// Package transport implements the frame-accurate playback state
// machine, independent of its effect-plugin wrapper so it can be
// unit-tested in isolation against the trim, loop-counting and bounce
// invariants.
package transport

import (
	"math"
	"math/rand"
)

// Mode selects the advance rule applied each tick.
type Mode uint8

// Playback modes.
const (
	ModeRepeat Mode = iota
	ModePlayOnce
	ModeBounce
	ModeRandom
)

// State is one clip's transport state. Zero value is not meaningful;
// construct with New.
type State struct {
	InPoint, OutPoint int64
	TotalFrames       int64

	Speed   float64
	Reverse bool
	Mode    Mode

	LoopCount int64 // 0 = infinite

	VirtualFrame    float64
	BounceDirection int64 // +1 or -1
	LoopIteration   int64
	RandomPlayed    int64

	CurrentPosition int64

	bounceReflections int64

	lastEmitted    int64
	ticksSinceEmit int64
	positionEveryN int64
}

// defaultPositionThrottle is the default tick interval for emitting a
// transport.position event.
const defaultPositionThrottle = 10

// New returns a transport state for a source with the given total frame
// count, trimmed to the full range and parked at the first frame.
func New(totalFrames int64) *State {
	s := &State{
		TotalFrames:     totalFrames,
		InPoint:         0,
		OutPoint:        totalFrames - 1,
		Speed:           1,
		Mode:            ModeRepeat,
		BounceDirection: 1,
		positionEveryN:  defaultPositionThrottle,
	}
	s.CurrentPosition = s.InPoint
	s.VirtualFrame = float64(s.InPoint)
	return s
}

// SetTrim updates in_point/out_point: both are clamped to
// [0, total_frames-1], swapped if in > out, and the current position is
// pulled inside the new range. An in == out request keeps a one-frame
// trim. Keeping an existing trim across a source swap is SetSource's job.
func (s *State) SetTrim(in, out int64) {
	maxIdx := s.TotalFrames - 1
	in = clampI(in, 0, maxIdx)
	out = clampI(out, 0, maxIdx)
	if in > out {
		in, out = out, in
	}
	s.InPoint, s.OutPoint = in, out
	s.CurrentPosition = clampI(s.CurrentPosition, s.InPoint, s.OutPoint)
	s.VirtualFrame = clampF(s.VirtualFrame, float64(s.InPoint), float64(s.OutPoint))
}

// SetSource re-binds the transport to a new source's total frame count.
// The user's existing trim is preserved across the swap if it is still
// valid for the new source (non-(0,0), ordered, in-bounds); otherwise it
// resets to the new source's full range.
func (s *State) SetSource(totalFrames int64) {
	s.TotalFrames = totalFrames
	maxIdx := totalFrames - 1

	validExisting := !(s.InPoint == 0 && s.OutPoint == 0) &&
		s.InPoint <= s.OutPoint &&
		s.InPoint >= 0 && s.OutPoint <= maxIdx

	if !validExisting {
		s.InPoint = 0
		s.OutPoint = maxIdx
	}
	s.CurrentPosition = clampI(s.CurrentPosition, s.InPoint, s.OutPoint)
	s.VirtualFrame = clampF(s.VirtualFrame, float64(s.InPoint), float64(s.OutPoint))
}

// Event is emitted by Tick when a notable transport state change occurs.
type Event struct {
	LoopCompleted    bool
	PositionEmitted  bool
	Exhausted        bool // play-once, first loop completed
}

// Tick advances the transport by one tick and returns any events that
// fired. The caller must write State.CurrentPosition into the source's
// frame cursor before the source yields this tick's pixels.
func (s *State) Tick() Event {
	var ev Event

	switch s.Mode {
	case ModeRepeat, ModePlayOnce:
		ev.LoopCompleted = s.tickRepeat()
	case ModeBounce:
		ev.LoopCompleted = s.tickBounce()
	case ModeRandom:
		ev.LoopCompleted = s.tickRandom()
	}

	s.CurrentPosition = clampI(int64(math.Round(s.VirtualFrame)), s.InPoint, s.OutPoint)

	if ev.LoopCompleted {
		s.LoopIteration++
		if s.Mode == ModePlayOnce && s.LoopIteration >= 1 {
			ev.Exhausted = true
		}
	}

	s.ticksSinceEmit++
	throttle := s.positionEveryN
	if throttle <= 0 {
		throttle = defaultPositionThrottle
	}
	if s.ticksSinceEmit >= throttle || absI(s.CurrentPosition-s.lastEmitted) > 30 {
		ev.PositionEmitted = true
		s.lastEmitted = s.CurrentPosition
		s.ticksSinceEmit = 0
	}

	return ev
}

func (s *State) tickRepeat() (loopCompleted bool) {
	direction := 1.0
	if s.Reverse {
		direction = -1
	}
	s.VirtualFrame += s.Speed * direction

	if s.VirtualFrame > float64(s.OutPoint) {
		s.VirtualFrame = float64(s.InPoint)
		return true
	}
	if s.VirtualFrame < float64(s.InPoint) {
		s.VirtualFrame = float64(s.OutPoint)
		return true
	}
	return false
}

func (s *State) tickBounce() (loopCompleted bool) {
	direction := 1.0
	if s.Reverse {
		direction = -1
	}
	direction *= float64(s.BounceDirection)

	s.VirtualFrame += s.Speed * direction

	// Reflect as soon as an endpoint is reached, not only once it is
	// exceeded: at speed=1 a step lands exactly on the endpoint, and
	// waiting for an overshoot would delay the turn by a full tick.
	lo, hi := float64(s.InPoint), float64(s.OutPoint)
	reflected := false
	if s.VirtualFrame >= hi {
		s.VirtualFrame = clampF(hi-(s.VirtualFrame-hi), lo, hi)
		s.BounceDirection = -s.BounceDirection
		reflected = true
	} else if s.VirtualFrame <= lo {
		s.VirtualFrame = clampF(lo+(lo-s.VirtualFrame), lo, hi)
		s.BounceDirection = -s.BounceDirection
		reflected = true
	}

	if !reflected {
		return false
	}

	// One full cycle (start->end->start) is one loop; every other
	// reflection completes a cycle, so the loop-complete event fires on
	// the second reflection, the fourth, and so on.
	s.bounceReflections++
	if s.bounceReflections%2 == 0 {
		return true
	}
	return false
}

func (s *State) tickRandom() (loopCompleted bool) {
	span := s.OutPoint - s.InPoint + 1
	if span < 1 {
		span = 1
	}
	s.VirtualFrame = float64(s.InPoint + rand.Int63n(span))
	s.RandomPlayed++

	target := int64(math.Max(1, math.Ceil(float64(s.OutPoint-s.InPoint)/math.Max(0.1, s.Speed))))
	if s.RandomPlayed >= target {
		s.RandomPlayed = 0
		return true
	}
	return false
}

func clampI(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absI(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
