package effectplugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func TestPixelateAveragesBlocks(t *testing.T) {
	p := NewPixelate()
	require.NoError(t, p.Initialize(map[string]paramval.Value{
		"block_size": paramval.Int(2),
	}))

	in := frame.New(2, 2)
	in.Set(0, 0, 0, 0, 0)
	in.Set(1, 0, 100, 0, 0)
	in.Set(0, 1, 0, 0, 0)
	in.Set(1, 1, 0, 0, 0)

	out, err := p.Process(in, plugin.Context{})
	require.NoError(t, err)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, _, _ := out.At(x, y)
			assert.Equal(t, uint8(25), r)
		}
	}
}

func TestPixelateBlockSizeOneIsNoOp(t *testing.T) {
	p := NewPixelate()
	require.NoError(t, p.Initialize(map[string]paramval.Value{
		"block_size": paramval.Int(1),
	}))

	in := solidFrame(2, 2, 5, 10, 15)
	out, err := p.Process(in, plugin.Context{})
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
