package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.levels",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "brightness", Kind: paramval.KindFloat, Default: paramval.Float(0), Min: -1, Max: 1},
			{Name: "contrast", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0, Max: 3},
		},
	}, func() interface{} { return NewLevels() })
}

// Levels applies a brightness offset and contrast scale around the
// mid-gray pivot, grounded on the same addWeighted-style linear blend
// invert.py uses for its amount parameter, generalized to an additive
// offset plus multiplicative contrast.
type Levels struct {
	cfg *plugin.AtomicConfig[levelsConfig]
}

type levelsConfig struct {
	brightness float64
	contrast   float64
}

// NewLevels returns a Levels effect with no adjustment.
func NewLevels() *Levels {
	return &Levels{cfg: plugin.NewAtomicConfig(levelsConfig{brightness: 0, contrast: 1})}
}

func (l *Levels) Initialize(config map[string]paramval.Value) error {
	cfg := levelsConfig{brightness: 0, contrast: 1}
	if v, ok := config["brightness"]; ok {
		cfg.brightness = v.Unwrap()
	}
	if v, ok := config["contrast"]; ok {
		cfg.contrast = v.Unwrap()
	}
	l.cfg.Store(cfg)
	return nil
}

func (l *Levels) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	cfg := l.cfg.Load()
	if cfg.brightness == 0 && cfg.contrast == 1 {
		return f, nil
	}
	out := frame.New(f.W, f.H)
	adjust := func(v uint8) uint8 {
		centered := float64(v) - 127.5
		scaled := centered*cfg.contrast + 127.5 + cfg.brightness*255
		return clampByte(scaled)
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			out.Set(x, y, adjust(r), adjust(g), adjust(b))
		}
	}
	return out, nil
}

func (l *Levels) Cleanup() {}
