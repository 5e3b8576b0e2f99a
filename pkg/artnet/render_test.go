package artnet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/frame"
)

func solidCanvas(w, h int, r, g, b uint8) *frame.Frame {
	f := frame.New(w, h)
	f.Fill(r, g, b)
	return f
}

func TestS1SingleClipArtNetEmission(t *testing.T) {
	canvas := solidCanvas(1920, 1080, 10, 20, 30)
	obj := &Object{
		ID:           "o1",
		Points:       []Point{{0, 0}, {960, 540}, {1919, 1079}},
		ChannelOrder: "RGB",
	}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	want := []byte{10, 20, 30, 10, 20, 30, 10, 20, 30}
	assert.Equal(t, want, got)
}

func TestS2GRBRemap(t *testing.T) {
	canvas := solidCanvas(1920, 1080, 10, 20, 30)
	obj := &Object{
		ID:           "o1",
		Points:       []Point{{0, 0}, {960, 540}, {1919, 1079}},
		ChannelOrder: "GRB",
	}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	want := []byte{20, 10, 30, 20, 10, 30, 20, 10, 30}
	assert.Equal(t, want, got)
}

func TestS6FPSGateThrottlesAtConfiguredRate(t *testing.T) {
	canvas := solidCanvas(4, 4, 1, 2, 3)
	obj := &Object{ID: "o1", Points: []Point{{0, 0}}, ChannelOrder: "RGB"}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}, FPS: 30}

	start := time.Now()
	sent := 0
	for i := 0; i < 1000; i++ {
		now := start.Add(time.Duration(i) * time.Millisecond)
		if Render(out, canvas, now) != nil {
			sent++
		}
	}
	assert.InDelta(t, 30, sent, 1)
}

func TestWhiteDerivationRGBWAuto(t *testing.T) {
	canvas := solidCanvas(2, 2, 100, 150, 50)
	obj := &Object{
		ID:            "o1",
		Points:        []Point{{0, 0}},
		ChannelOrder:  "RGBW",
		LEDType:       LEDRGBW,
		WhiteMode:     WhiteAuto,
		WhiteBehavior: 1.0,
	}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	require.Len(t, got, 4)
	assert.Equal(t, byte(50), got[3]) // w = min(r,g,b)
	assert.Equal(t, byte(50), got[0]) // r - w
	assert.Equal(t, byte(100), got[1])
	assert.Equal(t, byte(0), got[2])
}

func TestWhiteDerivationRGBWWPartitionsWarmCool(t *testing.T) {
	canvas := solidCanvas(2, 2, 80, 80, 80)
	obj := &Object{
		ID:            "o1",
		Points:        []Point{{0, 0}},
		ChannelOrder:  "RGBWC",
		LEDType:       LEDRGBWW,
		WhiteMode:     WhiteAuto,
		WhiteBehavior: 1.0,
		ColorTemp:     0.25,
	}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	require.Len(t, got, 5)
	warm, cool := got[3], got[4]
	assert.Equal(t, byte(20), warm)
	assert.Equal(t, byte(60), cool)
}

func TestDeltaEncodingSuppressesSmallChangesExceptOnFullFrameTick(t *testing.T) {
	obj := &Object{ID: "o1", Points: []Point{{0, 0}}, ChannelOrder: "RGB"}
	out := &Output{
		ID:                "out1",
		AssignedObjects:   []*Object{obj},
		DeltaEnabled:      true,
		DeltaThreshold:    10,
		FullFrameInterval: 4,
	}

	base := time.Now()

	full1 := Render(out, solidCanvas(2, 2, 100, 100, 100), base)
	require.Equal(t, []byte{100, 100, 100}, full1)

	small := Render(out, solidCanvas(2, 2, 103, 100, 100), base.Add(time.Millisecond))
	assert.Equal(t, []byte{100, 100, 100}, small, "change below threshold must be suppressed")

	big := Render(out, solidCanvas(2, 2, 130, 100, 100), base.Add(2*time.Millisecond))
	assert.Equal(t, byte(130), big[0], "change at/above threshold must pass through")

	full2 := Render(out, solidCanvas(2, 2, 5, 6, 7), base.Add(3*time.Millisecond))
	assert.Equal(t, []byte{5, 6, 7}, full2, "full_frame_interval tick must send unconditionally")
}

func TestDelayRingBuffersBeforePassthrough(t *testing.T) {
	obj := &Object{ID: "o1", Points: []Point{{0, 0}}, ChannelOrder: "RGB"}
	out := &Output{
		ID:              "out1",
		AssignedObjects: []*Object{obj},
		DelayMS:         20,
		FPS:             100, // ringCapacity = ceil(20*100/1000) = 2
	}

	base := time.Now()
	first := Render(out, solidCanvas(2, 2, 10, 20, 30), base)
	assert.Equal(t, []byte{0, 0, 0}, first, "ring not yet full must emit zeros")

	second := Render(out, solidCanvas(2, 2, 40, 50, 60), base.Add(10*time.Millisecond))
	assert.Equal(t, []byte{0, 0, 0}, second)

	third := Render(out, solidCanvas(2, 2, 70, 80, 90), base.Add(20*time.Millisecond))
	assert.Equal(t, []byte{10, 20, 30}, third, "oldest buffered frame surfaces once the ring fills")
}

func TestCapturedDimensionsScalePoints(t *testing.T) {
	canvas := frame.New(10, 10)
	canvas.Set(5, 5, 200, 0, 0)
	obj := &Object{
		ID:           "o1",
		Points:       []Point{{50, 50}},
		CapturedW:    100,
		CapturedH:    100,
		ChannelOrder: "RGB",
	}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	require.Len(t, got, 3)
	assert.Equal(t, byte(200), got[0])
}

func TestRenderMalformedChannelOrderFallsBackToRaw(t *testing.T) {
	canvas := solidCanvas(2, 2, 1, 2, 3)
	obj := &Object{ID: "o1", Points: []Point{{0, 0}}, ChannelOrder: "XYZ"}
	out := &Output{ID: "out1", AssignedObjects: []*Object{obj}}

	got := Render(out, canvas, time.Now())
	assert.Equal(t, []byte{1, 2, 3}, got)
}
