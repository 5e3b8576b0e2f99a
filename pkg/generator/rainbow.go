package generator

import (
	"math"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.rainbow-wave",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "speed", Kind: paramval.KindFloat, Default: paramval.Float(2.0), Min: 0.1, Max: 10, Step: 0.1},
			{Name: "wave_length", Kind: paramval.KindFloat, Default: paramval.Float(60), Min: 10, Max: 200},
			{Name: "vertical", Kind: paramval.KindBool, Default: paramval.Bool(false)},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(10), Min: 1, Max: 60},
		},
	}, func() interface{} { return &RainbowWave{} })
}

// RainbowWave sweeps a hue gradient horizontally or vertically across
// the canvas, ported from
// original_source/plugins/generators/rainbow_wave.py.
type RainbowWave struct {
	cfg *plugin.AtomicConfig[rainbowConfig]
}

type rainbowConfig struct {
	speed, waveLength float64
	vertical          bool
	duration          float64
}

// Initialize reads speed/wave_length/vertical/duration from config.
func (r *RainbowWave) Initialize(config map[string]paramval.Value) error {
	cfg := rainbowConfig{speed: 2.0, waveLength: 60, duration: 10}
	if v, ok := config["speed"]; ok {
		cfg.speed = v.AsFloat()
	}
	if v, ok := config["wave_length"]; ok {
		cfg.waveLength = v.AsFloat()
	}
	if v, ok := config["vertical"]; ok {
		cfg.vertical = v.AsBool()
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	if cfg.waveLength == 0 {
		cfg.waveLength = 60
	}
	r.cfg = plugin.NewAtomicConfig(cfg)
	return nil
}

// Process renders one rainbow-wave frame at timeSeconds.
func (r *RainbowWave) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	cfg := r.cfg.Load()
	f := frame.New(width, height)
	offset := math.Mod(timeSeconds*cfg.speed, 1.0)

	if cfg.vertical {
		for y := 0; y < height; y++ {
			hue := math.Mod(float64(y)/cfg.waveLength+offset, 1.0)
			rr, gg, bb := hsvToRGB(hue, 1.0, 1.0)
			r8, g8, b8 := to8(rr), to8(gg), to8(bb)
			for x := 0; x < width; x++ {
				f.Set(x, y, r8, g8, b8)
			}
		}
		return f, nil
	}

	for x := 0; x < width; x++ {
		hue := math.Mod(float64(x)/cfg.waveLength+offset, 1.0)
		rr, gg, bb := hsvToRGB(hue, 1.0, 1.0)
		r8, g8, b8 := to8(rr), to8(gg), to8(bb)
		for y := 0; y < height; y++ {
			f.Set(x, y, r8, g8, b8)
		}
	}
	return f, nil
}

// DurationSeconds reports the configured playback length.
func (r *RainbowWave) DurationSeconds() float64 {
	return r.cfg.Load().duration
}

// Cleanup is a no-op; RainbowWave holds no resources.
func (r *RainbowWave) Cleanup() {}
