// Package plugin implements the registered plugin table: a uniform
// capability contract for frame operators (generators, effects, sources,
// transitions), replacing the source's reflection-driven, duck-typed
// plugin loading with a factory keyed on plugin id and a parameter
// schema declared as const data adjacent to that factory.
package plugin

import (
	"encoding/json"
	"fmt"
	"sync"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
)

// Kind identifies which per-tick contract a plugin implements.
type Kind uint8

// Plugin kinds.
const (
	KindGenerator Kind = iota
	KindEffect
	KindSource
	KindTransition
)

func (k Kind) String() string {
	switch k {
	case KindGenerator:
		return "generator"
	case KindEffect:
		return "effect"
	case KindSource:
		return "source"
	case KindTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// ParamKind is paramval.Kind, reused for schema declarations; its
// KindRange member is the ranged form.
type ParamKind = paramval.Kind

// Param describes one named, schema-validated plugin parameter.
type Param struct {
	Name    string
	Kind    ParamKind
	Default paramval.Value

	Min, Max, Step float64  // float/int forms
	Options        []string // enum form
}

// Schema is the ordered, named parameter list a plugin instance exposes.
type Schema []Param

// Lookup returns the Param named name, or false if absent.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Context is per-tick ambient information handed to an Effect.
type Context struct {
	TimeSeconds float64
	FrameNumber int64
	CanvasW     int
	CanvasH     int
}

// Generator produces a fresh frame with no input frame.
type Generator interface {
	Initialize(config map[string]paramval.Value) error
	Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error)
	DurationSeconds() float64 // 0 means effectively infinite
	Cleanup()
}

// Effect transforms a frame, preserving its dimensions.
type Effect interface {
	Initialize(config map[string]paramval.Value) error
	Process(f *frame.Frame, ctx Context) (*frame.Frame, error)
	Cleanup()
}

// EOF is returned by Source.Process when the source is exhausted.
var EOF = fmt.Errorf("plugin: source exhausted")

// Source yields successive frames from a seekable cursor.
type Source interface {
	Initialize(config map[string]paramval.Value) error
	Process() (*frame.Frame, error)
	TotalFrames() int64
	FPS() float64
	Seek(frameNumber int64)
	Cleanup()
}

// Transition blends two frames across a progress fraction.
type Transition interface {
	Initialize(config map[string]paramval.Value) error
	Blend(a, b *frame.Frame, progress float64) (*frame.Frame, error)
	DurationSeconds() float64
	Cleanup()
}

// Descriptor is the immutable identity and schema of a registered plugin.
type Descriptor struct {
	ID     string
	Kind   Kind
	Schema Schema
}

// Factory constructs a fresh plugin instance for Descriptor.ID.
type Factory func() interface{}

type registration struct {
	descriptor Descriptor
	factory    Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registration{}
)

// Register adds a plugin to the process-wide table. Intended to be
// called from package init() by each built-in plugin package; panics on
// a duplicate id since that indicates a programming error, not a
// runtime fault.
func Register(descriptor Descriptor, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[descriptor.ID]; exists {
		panic(fmt.Sprintf("plugin: duplicate registration for id %q", descriptor.ID))
	}
	registry[descriptor.ID] = registration{descriptor: descriptor, factory: factory}
}

// Lookup returns the descriptor registered under id.
func Lookup(id string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	r, ok := registry[id]
	return r.descriptor, ok
}

// New constructs a fresh instance of the plugin registered under id.
func New(id string) (interface{}, error) {
	registryMu.RLock()
	r, ok := registry[id]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("plugin: unknown id %q", id)
	}
	return r.factory(), nil
}

// List returns every registered descriptor of the given kind.
func List(kind Kind) []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var out []Descriptor
	for _, r := range registry {
		if r.descriptor.Kind == kind {
			out = append(out, r.descriptor)
		}
	}
	return out
}

// Instance pairs a live plugin value with its descriptor and caches the
// two status-poll artifacts the runtime considers mandatory: the
// JSON-serialized schema and metadata blobs, computed once and reused
// across every subsequent poll.
type Instance struct {
	Descriptor Descriptor
	Value      interface{}

	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error

	metaOnce sync.Once
	metaJSON []byte
	metaErr  error
}

// SchemaJSON returns the cached JSON encoding of the plugin's schema.
func (inst *Instance) SchemaJSON() ([]byte, error) {
	inst.schemaOnce.Do(func() {
		inst.schemaJSON, inst.schemaErr = json.Marshal(inst.Descriptor.Schema)
	})
	return inst.schemaJSON, inst.schemaErr
}

// Metadata is the status-poll-facing identity blob for a plugin instance.
type Metadata struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// MetadataJSON returns the cached JSON encoding of the plugin's metadata.
func (inst *Instance) MetadataJSON() ([]byte, error) {
	inst.metaOnce.Do(func() {
		inst.metaJSON, inst.metaErr = json.Marshal(Metadata{
			ID:   inst.Descriptor.ID,
			Kind: inst.Descriptor.Kind.String(),
		})
	})
	return inst.metaJSON, inst.metaErr
}
