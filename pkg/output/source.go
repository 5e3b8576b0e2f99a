package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"lumenbridge/pkg/frame"
)

// SourceKind distinguishes the five output source expressions spec
// §4.6 supports.
type SourceKind uint8

// Source kinds.
const (
	SourceCanvas SourceKind = iota
	SourceClip
	SourceClipCurrent
	SourceLayer
	SourceLayerInclusive
)

// Source is a parsed output source expression.
type Source struct {
	Kind       SourceKind
	ClipID     uuid.UUID
	LayerIndex int
}

// Resolver supplies the frames a Source resolves against; pkg/player's
// Player implements this.
type Resolver interface {
	Canvas() *frame.Frame
	ClipFrame(id uuid.UUID) (*frame.Frame, error)
	CurrentClip() (uuid.UUID, bool)
	Layer(i int) (*frame.Frame, error)
	LayerInclusive(i int) (*frame.Frame, error)
}

// ParseSource parses one of: "canvas", "clip:<uuid>", "clip:current",
// "layer:<i>", "layer:<i>:inclusive".
func ParseSource(expr string) (Source, error) {
	parts := strings.Split(strings.TrimSpace(expr), ":")
	switch parts[0] {
	case "canvas":
		if len(parts) != 1 {
			return Source{}, fmt.Errorf("output: malformed source %q", expr)
		}
		return Source{Kind: SourceCanvas}, nil

	case "clip":
		if len(parts) != 2 {
			return Source{}, fmt.Errorf("output: malformed source %q", expr)
		}
		if parts[1] == "current" {
			return Source{Kind: SourceClipCurrent}, nil
		}
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Source{}, fmt.Errorf("output: invalid clip uuid in %q: %w", expr, err)
		}
		return Source{Kind: SourceClip, ClipID: id}, nil

	case "layer":
		if len(parts) < 2 || len(parts) > 3 {
			return Source{}, fmt.Errorf("output: malformed source %q", expr)
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return Source{}, fmt.Errorf("output: invalid layer index in %q: %w", expr, err)
		}
		kind := SourceLayer
		if len(parts) == 3 {
			if parts[2] != "inclusive" {
				return Source{}, fmt.Errorf("output: malformed source %q", expr)
			}
			kind = SourceLayerInclusive
		}
		return Source{Kind: kind, LayerIndex: i}, nil

	default:
		return Source{}, fmt.Errorf("output: unknown source expression %q", expr)
	}
}

// Resolve fetches the current frame for s from r.
func (s Source) Resolve(r Resolver) (*frame.Frame, error) {
	switch s.Kind {
	case SourceCanvas:
		if f := r.Canvas(); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("output: canvas not yet rendered")

	case SourceClip:
		return r.ClipFrame(s.ClipID)

	case SourceClipCurrent:
		id, ok := r.CurrentClip()
		if !ok {
			return nil, fmt.Errorf("output: no current clip set")
		}
		return r.ClipFrame(id)

	case SourceLayer:
		return r.Layer(s.LayerIndex)

	case SourceLayerInclusive:
		return r.LayerInclusive(s.LayerIndex)

	default:
		return nil, fmt.Errorf("output: unknown source kind %d", s.Kind)
	}
}
