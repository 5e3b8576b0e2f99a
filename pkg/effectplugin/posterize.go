package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.posterize",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "levels", Kind: paramval.KindFloat, Default: paramval.Float(8), Min: 2, Max: 256},
		},
	}, func() interface{} { return NewPosterize() })
}

// Posterize quantizes each channel to a reduced step count, grounded on
// posterize.py's integer bit-shift/step-size quantization.
type Posterize struct {
	cfg *plugin.AtomicConfig[posterizeConfig]
}

type posterizeConfig struct {
	levels float64
}

// NewPosterize returns a Posterize effect with 8 levels per channel.
func NewPosterize() *Posterize {
	return &Posterize{cfg: plugin.NewAtomicConfig(posterizeConfig{levels: 8})}
}

func (p *Posterize) Initialize(config map[string]paramval.Value) error {
	cfg := posterizeConfig{levels: 8}
	if v, ok := config["levels"]; ok {
		cfg.levels = v.Unwrap()
	}
	p.cfg.Store(cfg)
	return nil
}

func (p *Posterize) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	levels := p.cfg.Load().levels
	if levels >= 256 {
		return f, nil
	}
	n := int(levels)
	if n < 2 {
		n = 2
	}
	step := 255 / (n - 1)
	if step < 1 {
		step = 1
	}
	out := frame.New(f.W, f.H)
	quantize := func(v uint8) uint8 {
		q := (int(v) / step) * step
		if q > 255 {
			q = 255
		}
		return uint8(q)
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			out.Set(x, y, quantize(r), quantize(g), quantize(b))
		}
	}
	return out, nil
}

func (p *Posterize) Cleanup() {}
