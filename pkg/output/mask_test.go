package output

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lumenbridge/pkg/frame"
)

func TestRectCovers(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 4, H: 4}
	assert.True(t, r.Covers(2, 2))
	assert.True(t, r.Covers(5, 5))
	assert.False(t, r.Covers(6, 6))
	assert.False(t, r.Covers(1, 2))
}

func TestCircleCovers(t *testing.T) {
	c := Circle{CX: 5, CY: 5, R: 3}
	assert.True(t, c.Covers(5, 5))
	assert.True(t, c.Covers(5, 8))
	assert.False(t, c.Covers(5, 9))
}

func TestPolygonCoversSquare(t *testing.T) {
	p := Polygon{Points: [][2]int{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	assert.True(t, p.Covers(5, 5))
	assert.False(t, p.Covers(15, 15))
}

func TestApplyMasksZeroesCoveredPixels(t *testing.T) {
	f := frame.New(4, 4)
	f.Fill(200, 150, 100)

	ApplyMasks(f, []Shape{Rect{X: 0, Y: 0, W: 2, H: 4}})

	r, g, b := f.At(0, 0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
	r, g, b = f.At(3, 3)
	assert.Equal(t, [3]uint8{200, 150, 100}, [3]uint8{r, g, b})
}

func TestApplyMasksNoopWhenEmpty(t *testing.T) {
	f := frame.New(2, 2)
	f.Fill(1, 2, 3)
	ApplyMasks(f, nil)
	r, g, b := f.At(0, 0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}
