package plugin

import (
	"fmt"
	"sync/atomic"

	"lumenbridge/pkg/paramval"
)

// ParamUpdater is implemented by plugin instances that accept runtime
// parameter changes from the control plane. ApplyParam must reject
// unknown names with a negative acknowledgement (a non-nil error)
// rather than silently ignoring them.
type ParamUpdater interface {
	ApplyParam(name string, value paramval.Value) error
}

// AtomicConfig holds a plugin's current config struct behind a single
// pointer, swapped atomically between ticks. This replaces the source's
// coupling of effect instances to mutable instance attributes with
// silent cache rebuilding: Process always reads a fully-formed snapshot,
// either the old one or the new one, never a partial update.
type AtomicConfig[T any] struct {
	ptr atomic.Pointer[T]
}

// NewAtomicConfig returns an AtomicConfig holding an initial value.
func NewAtomicConfig[T any](initial T) *AtomicConfig[T] {
	c := &AtomicConfig[T]{}
	c.ptr.Store(&initial)
	return c
}

// Load returns the current config snapshot.
func (c *AtomicConfig[T]) Load() T {
	return *c.ptr.Load()
}

// Store atomically replaces the config snapshot.
func (c *AtomicConfig[T]) Store(v T) {
	c.ptr.Store(&v)
}

// Swap atomically replaces the config snapshot via a pure update
// function applied to the previous snapshot, useful for ApplyParam
// implementations that only change one field.
func (c *AtomicConfig[T]) Swap(update func(T) T) {
	for {
		old := c.ptr.Load()
		next := update(*old)
		if c.ptr.CompareAndSwap(old, &next) {
			return
		}
	}
}

// RejectUnknownParam is a convenience for ApplyParam implementations: a
// uniform negative acknowledgement for names the plugin doesn't expose.
func RejectUnknownParam(name string) error {
	return fmt.Errorf("plugin: unknown parameter %q", name)
}
