package transition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/frame"
)

func TestRuntimeStartRejectsConcurrentTransition(t *testing.T) {
	r := NewRuntime()
	f := NewFade()
	require.NoError(t, f.Initialize(nil))

	now := time.Now()
	require.NoError(t, r.Start(f, uuid.New(), uuid.New(), 1, Linear, now))
	err := r.Start(f, uuid.New(), uuid.New(), 1, Linear, now)
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestRuntimeTickProgressesAndCompletes(t *testing.T) {
	r := NewRuntime()
	f := NewFade()
	require.NoError(t, f.Initialize(nil))

	outID, inID := uuid.New(), uuid.New()
	start := time.Now()
	require.NoError(t, r.Start(f, outID, inID, 1, Linear, start))

	a := frame.New(2, 2)
	a.Fill(0, 0, 0)
	b := frame.New(2, 2)
	b.Fill(255, 255, 255)

	_, complete, err := r.Tick(a, b, start.Add(500*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, complete)

	gotOut, gotIn, active := r.Active()
	require.True(t, active)
	assert.Equal(t, outID, gotOut)
	assert.Equal(t, inID, gotIn)

	blended, complete, err := r.Tick(a, b, start.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, complete)
	r2, _, _ := blended.At(0, 0)
	assert.Equal(t, uint8(255), r2)

	_, _, active = r.Active()
	assert.False(t, active)
}

func TestRuntimeTickWithNoActiveTransitionErrors(t *testing.T) {
	r := NewRuntime()
	_, _, err := r.Tick(frame.New(1, 1), frame.New(1, 1), time.Now())
	assert.Error(t, err)
}

func TestRuntimeUsesPluginDurationWhenUnset(t *testing.T) {
	r := NewRuntime()
	f := NewFade()
	require.NoError(t, f.Initialize(nil)) // default duration 1s

	start := time.Now()
	require.NoError(t, r.Start(f, uuid.New(), uuid.New(), 0, Linear, start))

	_, complete, err := r.Tick(frame.New(1, 1), frame.New(1, 1), start.Add(900*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, complete)
}
