package effectplugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func solidFrame(w, h int, r, g, b uint8) *frame.Frame {
	f := frame.New(w, h)
	f.Fill(r, g, b)
	return f
}

func TestOpacityFullIsNoOp(t *testing.T) {
	o := NewOpacity()
	require.NoError(t, o.Initialize(nil))

	in := solidFrame(2, 2, 100, 150, 200)
	out, err := o.Process(in, plugin.Context{})
	require.NoError(t, err)
	r, g, b := out.At(0, 0)
	assert.Equal(t, [3]uint8{100, 150, 200}, [3]uint8{r, g, b})
}

func TestOpacityHalvesBrightness(t *testing.T) {
	o := NewOpacity()
	require.NoError(t, o.Initialize(map[string]paramval.Value{
		"opacity": paramval.Float(50),
	}))

	in := solidFrame(1, 1, 200, 100, 50)
	out, err := o.Process(in, plugin.Context{})
	require.NoError(t, err)
	r, g, b := out.At(0, 0)
	assert.Equal(t, uint8(100), r)
	assert.Equal(t, uint8(50), g)
	assert.Equal(t, uint8(25), b)
}
