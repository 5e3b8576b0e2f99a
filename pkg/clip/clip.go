// Package clip implements the process-wide ClipRegistry and the
// playlist manager, keyed by UUID with a reader-many/writer-one guard
// instead of a single coarse mutex, since layers read clips far more
// often than the control plane mutates them.
package clip

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"lumenbridge/pkg/effectchain"
)

// Clip is an instance of one source plugin plus an ordered clip-level
// effect chain. The registry owns the Clip; layers and playlist items
// hold only its UUID.
type Clip struct {
	ID         uuid.UUID
	SourceID   string // registered plugin id
	DurationS  float64
	Params     map[string]interface{}
	EffectChain *effectchain.Chain
}

// Registry is the process-wide, UUID-keyed clip store. Ownership: the
// registry owns the clip; layers and playlist items hold only the UUID
// and must re-resolve through Get on every tick.
type Registry struct {
	mu    sync.RWMutex
	clips map[uuid.UUID]*Clip
}

// NewRegistry returns an empty clip registry.
func NewRegistry() *Registry {
	return &Registry{clips: map[uuid.UUID]*Clip{}}
}

// Create allocates a new clip with a fresh UUID and inserts it.
func (r *Registry) Create(sourceID string, durationS float64) *Clip {
	c := &Clip{
		ID:          uuid.New(),
		SourceID:    sourceID,
		DurationS:   durationS,
		Params:      map[string]interface{}{},
		EffectChain: effectchain.New(nil),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clips[c.ID] = c
	return c
}

// ErrNotExist is returned when a clip UUID has no registered clip.
var ErrNotExist = fmt.Errorf("clip: does not exist")

// Get resolves a UUID to its clip. Many concurrent readers (layers on
// every tick) are allowed; Get never blocks behind another reader.
func (r *Registry) Get(id uuid.UUID) (*Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clips[id]
	if !ok {
		return nil, ErrNotExist
	}
	return c, nil
}

// Delete removes a clip. Destroying a clip that is still referenced by a
// layer or playlist item is the caller's responsibility to avoid; the
// registry itself does no reference counting, since a clip may be
// owned simultaneously by playlist items, layers, and direct references.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clips[id]; !ok {
		return ErrNotExist
	}
	delete(r.clips, id)
	return nil
}

// List returns every clip currently registered.
func (r *Registry) List() []*Clip {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Clip, 0, len(r.clips))
	for _, c := range r.clips {
		out = append(out, c)
	}
	return out
}
