package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEasing(t *testing.T) {
	cases := map[string]Easing{
		"linear":      Linear,
		"ease_in":     EaseIn,
		"ease_out":    EaseOut,
		"ease_in_out": EaseInOut,
	}
	for name, want := range cases {
		got, err := ParseEasing(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
}

func TestParseEasingUnknown(t *testing.T) {
	_, err := ParseEasing("bounce")
	assert.Error(t, err)
}

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut} {
		assert.InDelta(t, 0, e.Apply(0), 1e-9)
		assert.InDelta(t, 1, e.Apply(1), 1e-9)
	}
}

func TestEasingCurvesDiffer(t *testing.T) {
	const t0 = 0.25
	assert.InDelta(t, t0, Linear.Apply(t0), 1e-9)
	assert.InDelta(t, t0*t0, EaseIn.Apply(t0), 1e-9)
	assert.InDelta(t, 1-(1-t0)*(1-t0), EaseOut.Apply(t0), 1e-9)
	assert.Less(t, EaseIn.Apply(t0), Linear.Apply(t0))
	assert.Greater(t, EaseOut.Apply(t0), Linear.Apply(t0))
}

func TestEaseInOutSymmetricAroundMidpoint(t *testing.T) {
	assert.InDelta(t, 0.5, EaseInOut.Apply(0.5), 1e-9)
	assert.InDelta(t, EaseInOut.Apply(0.25), 1-EaseInOut.Apply(0.75), 1e-9)
}
