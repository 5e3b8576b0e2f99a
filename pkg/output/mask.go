// Package output implements preview-player output routing: slice/mask
// geometry, source-expression resolution, and the per-output worker
// with a single-slot drop-on-full queue.
package output

import "lumenbridge/pkg/frame"

// Shape reports whether it covers a given canvas pixel. Mask shapes set
// covered pixels to zero in Slice.Extract.
type Shape interface {
	Covers(x, y int) bool
}

// Rect is an axis-aligned rectangle mask/crop region.
type Rect struct {
	X, Y, W, H int
}

// Covers reports whether (x, y) falls inside the rectangle.
func (r Rect) Covers(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Circle is a circular mask.
type Circle struct {
	CX, CY, R int
}

// Covers reports whether (x, y) falls inside the circle.
func (c Circle) Covers(x, y int) bool {
	dx, dy := x-c.CX, y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// Polygon is an arbitrary closed polygon mask, tested with a standard
// ray-casting point-in-polygon check.
type Polygon struct {
	Points [][2]int
}

// Covers reports whether (x, y) falls inside the polygon via a
// horizontal ray-casting parity test.
func (p Polygon) Covers(x, y int) bool {
	inside := false
	j := len(p.Points) - 1
	for i := 0; i < len(p.Points); i++ {
		xi, yi := p.Points[i][0], p.Points[i][1]
		xj, yj := p.Points[j][0], p.Points[j][1]
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ApplyMasks zeros every pixel in f covered by any of masks.
func ApplyMasks(f *frame.Frame, masks []Shape) {
	if len(masks) == 0 {
		return
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			for _, m := range masks {
				if m.Covers(x, y) {
					f.Set(x, y, 0, 0, 0)
					break
				}
			}
		}
	}
}
