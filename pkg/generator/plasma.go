package generator

import (
	"math"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.plasma",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "speed", Kind: paramval.KindFloat, Default: paramval.Float(0.5), Min: 0, Max: 5, Step: 0.1},
			{Name: "scale", Kind: paramval.KindFloat, Default: paramval.Float(1.0), Min: 0.1, Max: 5, Step: 0.1},
			{Name: "hue_shift", Kind: paramval.KindFloat, Default: paramval.Float(0.1), Min: 0, Max: 1, Step: 0.01},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(10), Min: 1, Max: 60},
		},
	}, func() interface{} { return &Plasma{} })
}

// Plasma overlays four sine waves per pixel, maps the sum to a
// hue-rotating HSV color, and renders the result — a port of
// original_source/plugins/generators/plasma.py to per-pixel Go.
type Plasma struct {
	cfg *plugin.AtomicConfig[plasmaConfig]
}

type plasmaConfig struct {
	speed, scale, hueShift, duration float64
}

// Initialize reads speed/scale/hue_shift/duration from config.
func (p *Plasma) Initialize(config map[string]paramval.Value) error {
	cfg := plasmaConfig{speed: 0.5, scale: 1.0, hueShift: 0.1, duration: 10}
	if v, ok := config["speed"]; ok {
		cfg.speed = v.AsFloat()
	}
	if v, ok := config["scale"]; ok {
		cfg.scale = v.AsFloat()
	}
	if v, ok := config["hue_shift"]; ok {
		cfg.hueShift = v.AsFloat()
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	p.cfg = plugin.NewAtomicConfig(cfg)
	return nil
}

// Process renders one plasma frame at timeSeconds.
func (p *Plasma) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	cfg := p.cfg.Load()
	scale := cfg.scale
	if scale == 0 {
		scale = 1
	}
	f := frame.New(width, height)

	for y := 0; y < height; y++ {
		fy := float64(y) / scale
		for x := 0; x < width; x++ {
			fx := float64(x) / scale

			v1 := math.Sin(fx/16.0 + timeSeconds*cfg.speed)
			v2 := math.Sin(fy/8.0 + timeSeconds*cfg.speed)
			v3 := math.Sin((fx+fy)/16.0 + timeSeconds*cfg.speed)
			v4 := math.Sin(math.Sqrt(fx*fx+fy*fy)/8.0 + timeSeconds*cfg.speed)

			plasma := (v1 + v2 + v3 + v4) / 4.0
			plasma = (plasma + 1.0) / 2.0

			hue := math.Mod(plasma+timeSeconds*cfg.hueShift, 1.0)
			r, g, b := hsvToRGB(hue, 1.0, 1.0)
			f.Set(x, y, to8(r), to8(g), to8(b))
		}
	}
	return f, nil
}

// DurationSeconds reports the configured playback length.
func (p *Plasma) DurationSeconds() float64 {
	return p.cfg.Load().duration
}

// Cleanup is a no-op; Plasma holds no resources.
func (p *Plasma) Cleanup() {}
