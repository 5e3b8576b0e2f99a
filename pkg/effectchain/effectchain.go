// Package effectchain runs an ordered chain of effect plugins over a
// frame, isolating plugin faults so a single misbehaving effect never
// stalls the pipeline (error taxonomy tier 2).
package effectchain

import (
	"sync"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/log"
	"lumenbridge/pkg/plugin"
)

// Entry binds one effect instance to the chain. Order is authoritative
// and immutable except via an explicit replacement of the whole list
// (Chain.Set).
type Entry struct {
	ID       string // effect-instance id, stable across reorders
	Instance plugin.Effect
}

// Chain is an ordered, independently-faulting effect pipeline. The same
// type serves both per-clip (pre-composite) and per-player
// (post-composite) chains — both use the same executor.
type Chain struct {
	mu      sync.RWMutex
	entries []Entry

	throttle *faultThrottle
}

// New returns an empty chain. logger may be nil in tests.
func New(logger *log.Logger) *Chain {
	return &Chain{throttle: newFaultThrottle(logger)}
}

// Set replaces the chain's entries wholesale, the only mutation the
// control plane needs for add/remove/reorder.
func (c *Chain) Set(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
}

// Entries returns a snapshot of the current chain.
func (c *Chain) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Run applies every effect in order, skipping (and fault-logging) any
// effect whose Process call errors, per the error taxonomy: the fault is
// non-fatal and the chain continues with the frame as it was before
// that effect.
func (c *Chain) Run(f *frame.Frame, ctx plugin.Context) *frame.Frame {
	entries := c.Entries()

	current := f
	for _, e := range entries {
		out, err := e.Instance.Process(current, ctx)
		if err != nil {
			c.throttle.report(e.ID, err)
			continue
		}
		current = out
	}
	return current
}

// faultThrottle logs the first occurrence of a fault, then every Nth
// thereafter, per (effect-instance, implicit) key, matching the error
// taxonomy's "first occurrence + every Nth" policy.
type faultThrottle struct {
	logger *log.Logger
	every  int

	mu     sync.Mutex
	counts map[string]int
}

const defaultThrottleEvery = 50

func newFaultThrottle(logger *log.Logger) *faultThrottle {
	return &faultThrottle{logger: logger, every: defaultThrottleEvery, counts: map[string]int{}}
}

func (t *faultThrottle) report(effectID string, err error) {
	t.mu.Lock()
	t.counts[effectID]++
	n := t.counts[effectID]
	t.mu.Unlock()

	if n != 1 && n%t.every != 0 {
		return
	}
	if t.logger == nil {
		return
	}
	t.logger.Error().Src("effectchain").Msgf("effect %q faulted (occurrence %d): %v", effectID, n, err)
}

// FaultCount returns how many times effectID has faulted, for the status
// endpoint's effect-chain fault counts.
func (c *Chain) FaultCount(effectID string) int {
	c.throttle.mu.Lock()
	defer c.throttle.mu.Unlock()
	return c.throttle.counts[effectID]
}
