package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
)

type fakeGenerator struct{ color [3]uint8 }

func (g *fakeGenerator) Initialize(map[string]paramval.Value) error { return nil }

func (g *fakeGenerator) Process(w, h int, _ float64, _ int64) (*frame.Frame, error) {
	f := frame.New(w, h)
	f.Fill(g.color[0], g.color[1], g.color[2])
	return f, nil
}

func (g *fakeGenerator) DurationSeconds() float64 { return 0 }
func (g *fakeGenerator) Cleanup()                 {}

func registerFakeGenerator(t *testing.T, id string) {
	Register(Descriptor{
		ID:   id,
		Kind: KindGenerator,
		Schema: Schema{
			{Name: "color", Kind: paramval.KindColor},
		},
	}, func() interface{} { return &fakeGenerator{} })
}

func TestRegisterAndNew(t *testing.T) {
	registerFakeGenerator(t, "test.solid-color")

	v, err := New("test.solid-color")
	require.NoError(t, err)

	gen, ok := v.(Generator)
	require.True(t, ok)

	f, err := gen.Process(2, 2, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, f.W)
}

func TestNewUnknownID(t *testing.T) {
	_, err := New("does.not.exist")
	require.Error(t, err)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	registerFakeGenerator(t, "test.duplicate")
	assert.Panics(t, func() { registerFakeGenerator(t, "test.duplicate") })
}

func TestSchemaLookup(t *testing.T) {
	s := Schema{{Name: "opacity", Kind: paramval.KindFloat}}
	p, ok := s.Lookup("opacity")
	assert.True(t, ok)
	assert.Equal(t, paramval.KindFloat, p.Kind)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	registerFakeGenerator(t, "test.list-target")
	descs := List(KindGenerator)
	found := false
	for _, d := range descs {
		if d.ID == "test.list-target" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInstanceCachesSchemaAndMetadata(t *testing.T) {
	registerFakeGenerator(t, "test.cache-target")
	descriptor, ok := Lookup("test.cache-target")
	require.True(t, ok)

	inst := &Instance{Descriptor: descriptor, Value: &fakeGenerator{}}

	schema1, err := inst.SchemaJSON()
	require.NoError(t, err)
	schema2, err := inst.SchemaJSON()
	require.NoError(t, err)
	assert.Same(t, &schema1[0], &schema2[0])

	meta, err := inst.MetadataJSON()
	require.NoError(t, err)
	assert.Contains(t, string(meta), "test.cache-target")
}

func TestAtomicConfig(t *testing.T) {
	type cfg struct{ Opacity float64 }

	c := NewAtomicConfig(cfg{Opacity: 1})
	assert.Equal(t, 1.0, c.Load().Opacity)

	c.Store(cfg{Opacity: 0.5})
	assert.Equal(t, 0.5, c.Load().Opacity)

	c.Swap(func(prev cfg) cfg {
		prev.Opacity *= 2
		return prev
	})
	assert.Equal(t, 1.0, c.Load().Opacity)
}

func TestRejectUnknownParam(t *testing.T) {
	err := RejectUnknownParam("bogus")
	require.Error(t, err)
}
