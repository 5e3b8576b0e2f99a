package output

import (
	"math"

	"lumenbridge/pkg/frame"
)

// Slice selects a rectangular region of a source frame, optionally
// rotated, with an ordered set of masks applied afterward.
type Slice struct {
	Rect        Rect
	RotationDeg float64
	Masks       []Shape
}

// Extract crops Rect out of src (rotating about the rect's center when
// RotationDeg is non-zero) and zeroes any masked pixels.
func (s Slice) Extract(src *frame.Frame) *frame.Frame {
	w, h := s.Rect.W, s.Rect.H
	if w <= 0 || h <= 0 {
		return frame.New(0, 0)
	}

	out := frame.New(w, h)
	if s.RotationDeg == 0 {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sx, sy := s.Rect.X+x, s.Rect.Y+y
				if sx < 0 || sy < 0 || sx >= src.W || sy >= src.H {
					continue
				}
				r, g, b := src.At(sx, sy)
				out.Set(x, y, r, g, b)
			}
		}
	} else {
		theta := s.RotationDeg * math.Pi / 180
		cos, sin := math.Cos(theta), math.Sin(theta)
		cx, cy := float64(w-1)/2, float64(h-1)/2
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				// Rotate the destination pixel back into source space
				// (inverse rotation) to avoid gaps in the output.
				dx, dy := float64(x)-cx, float64(y)-cy
				rx := dx*cos + dy*sin
				ry := -dx*sin + dy*cos
				sx := int(math.Round(rx+cx)) + s.Rect.X
				sy := int(math.Round(ry+cy)) + s.Rect.Y
				if sx < 0 || sy < 0 || sx >= src.W || sy >= src.H {
					continue
				}
				r, g, b := src.At(sx, sy)
				out.Set(x, y, r, g, b)
			}
		}
	}

	ApplyMasks(out, s.Masks)
	return out
}

// Placement positions an extracted slice within a composition frame.
type Placement struct {
	Slice         Slice
	Source        *frame.Frame
	DestX, DestY int
}

// Composition groups several slice placements into one output frame of
// arbitrary size — the "composition" slice kind.
type Composition struct {
	W, H       int
	Placements []Placement
}

// Render builds the composed output frame.
func (c Composition) Render() *frame.Frame {
	out := frame.New(c.W, c.H)
	for _, p := range c.Placements {
		extracted := p.Slice.Extract(p.Source)
		for y := 0; y < extracted.H; y++ {
			for x := 0; x < extracted.W; x++ {
				dx, dy := p.DestX+x, p.DestY+y
				if dx < 0 || dy < 0 || dx >= out.W || dy >= out.H {
					continue
				}
				r, g, b := extracted.At(x, y)
				out.Set(dx, dy, r, g, b)
			}
		}
	}
	return out
}
