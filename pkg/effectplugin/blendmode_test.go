package effectplugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func TestBlendModeRegistered(t *testing.T) {
	_, ok := plugin.Lookup("effect.blend-mode")
	assert.True(t, ok)
}

func TestBlendModeMultiplyWithBlack(t *testing.T) {
	b := NewBlendMode()
	require.NoError(t, b.Initialize(map[string]paramval.Value{
		"mode":    paramval.Enum("multiply"),
		"color":   paramval.ColorValue(paramval.Color{R: 0, G: 0, B: 0}),
		"opacity": paramval.Float(100),
		"mix":     paramval.Float(100),
	}))

	in := solidFrame(1, 1, 200, 100, 50)
	out, err := b.Process(in, plugin.Context{})
	require.NoError(t, err)
	r, g, bl := out.At(0, 0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, bl})
}

func TestBlendModeZeroOpacityIsNoOp(t *testing.T) {
	b := NewBlendMode()
	require.NoError(t, b.Initialize(map[string]paramval.Value{
		"mode":    paramval.Enum("screen"),
		"opacity": paramval.Float(0),
	}))

	in := solidFrame(1, 1, 10, 20, 30)
	out, err := b.Process(in, plugin.Context{})
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
