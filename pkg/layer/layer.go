// Package layer implements the layer stack and compositor: blending
// clip frames bottom-to-top into a canvas. Rather than leaving
// master/slave implicit in index 0, this package makes it explicit
// with a Role field validated on every structural mutation.
package layer

import (
	"fmt"

	"github.com/google/uuid"
	"lumenbridge/pkg/frame"
)

// Role distinguishes the tick-driving master layer from lockstep slaves.
type Role uint8

// Layer roles.
const (
	RoleSlave Role = iota
	RoleMaster
)

// Layer is one entry in a player's layer stack.
type Layer struct {
	ID             string
	ClipUUID       uuid.UUID
	BlendMode      frame.BlendMode
	OpacityPercent float64 // 0..100
	Mix            float64 // 0..1, separate from opacity
	Enabled        bool
	Role           Role
}

// Opacity returns OpacityPercent normalized to 0..1.
func (l Layer) Opacity() float64 { return l.OpacityPercent / 100 }

// Stack is an ordered layer list with layer 0 always the master.
type Stack struct {
	layers []Layer
}

// NewStack returns a stack holding master as its single layer, with its
// Role set to RoleMaster. Enabled and every other field are kept as given.
func NewStack(master Layer) *Stack {
	master.Role = RoleMaster
	return &Stack{layers: []Layer{master}}
}

// ErrNoMaster is returned by Validate when index 0 is not RoleMaster.
var ErrNoMaster = fmt.Errorf("layer: stack has no master at index 0")

// ErrMultipleMasters is returned by Validate when more than one layer
// claims RoleMaster.
var ErrMultipleMasters = fmt.Errorf("layer: stack has more than one master")

// Validate enforces "exactly one Master at index 0".
func (s *Stack) Validate() error {
	if len(s.layers) == 0 || s.layers[0].Role != RoleMaster {
		return ErrNoMaster
	}
	for i := 1; i < len(s.layers); i++ {
		if s.layers[i].Role == RoleMaster {
			return ErrMultipleMasters
		}
	}
	return nil
}

// Append adds a slave layer to the top of the stack.
func (s *Stack) Append(l Layer) error {
	l.Role = RoleSlave
	s.layers = append(s.layers, l)
	return s.Validate()
}

// Remove deletes the layer at index i. Removing the master (index 0) is
// rejected; destroy and recreate the stack instead.
func (s *Stack) Remove(i int) error {
	if i == 0 {
		return fmt.Errorf("layer: cannot remove master layer at index 0")
	}
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("layer: index %d out of range", i)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return s.Validate()
}

// Layers returns the stack's layers in order, master first.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Master returns the stack's master layer.
func (s *Stack) Master() Layer { return s.layers[0] }

// FrameSource resolves a layer's clip to its current frame, already run
// through that clip's own effect chain (clip-level chains run before
// compositing).
type FrameSource func(clipUUID uuid.UUID) (*frame.Frame, error)

// Composite blends every enabled layer, bottom to top, onto a black
// canvas sized (w, h). A disabled layer is skipped entirely — it must
// not be asked for a frame, since that would consume a tick from its
// source.
func Composite(stack *Stack, w, h int, source FrameSource) (*frame.Frame, error) {
	canvas := frame.New(w, h)

	for _, l := range stack.Layers() {
		if !l.Enabled {
			continue
		}
		f, err := source(l.ClipUUID)
		if err != nil {
			return nil, fmt.Errorf("layer: could not fetch frame for layer %q: %w", l.ID, err)
		}
		canvas = frame.BlendFrame(canvas, f, l.BlendMode, l.Opacity(), l.Mix)
	}
	return canvas, nil
}
