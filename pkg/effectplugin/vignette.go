package effectplugin

import (
	"math"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.vignette",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "strength", Kind: paramval.KindFloat, Default: paramval.Float(0.5), Min: 0, Max: 1},
			{Name: "radius", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0.1, Max: 2},
		},
	}, func() interface{} { return NewVignette() })
}

// Vignette darkens pixels by their radial distance from center, a
// frame-edge treatment in the spirit of border.py's frame-edge
// treatment, generalized from a fixed-width solid border to a smooth
// radial falloff suited to an LED canvas rather than a rectangular photo
// frame.
type Vignette struct {
	cfg *plugin.AtomicConfig[vignetteConfig]
}

type vignetteConfig struct {
	strength float64
	radius   float64
}

// NewVignette returns a Vignette effect at moderate default strength.
func NewVignette() *Vignette {
	return &Vignette{cfg: plugin.NewAtomicConfig(vignetteConfig{strength: 0.5, radius: 1})}
}

func (e *Vignette) Initialize(config map[string]paramval.Value) error {
	cfg := vignetteConfig{strength: 0.5, radius: 1}
	if v, ok := config["strength"]; ok {
		cfg.strength = v.Unwrap()
	}
	if v, ok := config["radius"]; ok {
		cfg.radius = v.Unwrap()
	}
	e.cfg.Store(cfg)
	return nil
}

func (e *Vignette) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	cfg := e.cfg.Load()
	if cfg.strength <= 0 {
		return f, nil
	}
	w, h := f.W, f.H
	cx, cy := float64(w-1)/2, float64(h-1)/2
	maxDist := math.Hypot(cx, cy) * cfg.radius
	if maxDist <= 0 {
		maxDist = 1
	}

	out := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			falloff := 1 - cfg.strength*clamp01(dist/maxDist)
			r, g, b := f.At(x, y)
			out.Set(x, y, clampByte(float64(r)*falloff), clampByte(float64(g)*falloff), clampByte(float64(b)*falloff))
		}
	}
	return out, nil
}

func (e *Vignette) Cleanup() {}
