package generator

import (
	"math"
	"math/rand"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.noise",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "noise_type", Kind: paramval.KindEnum, Default: paramval.Enum("white"), Options: []string{"white", "smooth", "colored"}},
			{Name: "scale", Kind: paramval.KindFloat, Default: paramval.Float(1.0), Min: 0.1, Max: 10, Step: 0.1},
			{Name: "animated", Kind: paramval.KindBool, Default: paramval.Bool(true)},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(10), Min: 1, Max: 60},
		},
	}, func() interface{} { return &Noise{} })
}

// Noise renders white, smooth (low-res upsampled), or hue-shifting
// colored noise, ported from
// original_source/plugins/generators/noise.py.
type Noise struct {
	cfg *plugin.AtomicConfig[noiseConfig]
}

type noiseConfig struct {
	noiseType string
	scale     float64
	animated  bool
	duration  float64
}

// Initialize reads noise_type/scale/animated/duration from config.
func (n *Noise) Initialize(config map[string]paramval.Value) error {
	cfg := noiseConfig{noiseType: "white", scale: 1.0, animated: true, duration: 10}
	if v, ok := config["noise_type"]; ok {
		cfg.noiseType = v.AsEnum()
	}
	if v, ok := config["scale"]; ok {
		cfg.scale = v.AsFloat()
	}
	if v, ok := config["animated"]; ok {
		cfg.animated = v.AsBool()
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	n.cfg = plugin.NewAtomicConfig(cfg)
	return nil
}

// Process renders one noise frame. A seeded generator keyed on
// timeSeconds reproduces the same frame for the same tick when
// animated, and a fixed frame when not, mirroring the source's
// seed = int(time * 30) scheme.
func (n *Noise) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	cfg := n.cfg.Load()

	seed := int64(1)
	if cfg.animated {
		seed = int64(timeSeconds*30) + 1
	}
	rng := rand.New(rand.NewSource(seed))

	switch cfg.noiseType {
	case "smooth":
		return n.smooth(rng, width, height, cfg.scale), nil
	case "colored":
		t := timeSeconds
		if !cfg.animated {
			t = 0
		}
		return n.colored(rng, width, height, t), nil
	default:
		return n.white(rng, width, height), nil
	}
}

func (n *Noise) white(rng *rand.Rand, width, height int) *frame.Frame {
	f := frame.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Set(x, y, uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)))
		}
	}
	return f
}

func (n *Noise) smooth(rng *rand.Rand, width, height int, scale float64) *frame.Frame {
	if scale <= 0 {
		scale = 1
	}
	smallW := maxInt(2, int(float64(width)/(scale*10)))
	smallH := maxInt(2, int(float64(height)/(scale*10)))

	small := frame.New(smallW, smallH)
	for y := 0; y < smallH; y++ {
		for x := 0; x < smallW; x++ {
			small.Set(x, y, uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)))
		}
	}
	return frame.ResizeNearest(small, width, height)
}

func (n *Noise) colored(rng *rand.Rand, width, height int, timeOffset float64) *frame.Frame {
	f := frame.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := rng.Float64()
			hue := math.Mod(v+timeOffset*50.0/360.0, 1.0)
			r, g, b := hsvToRGB(hue, 1.0, v)
			f.Set(x, y, to8(r), to8(g), to8(b))
		}
	}
	return f
}

// DurationSeconds reports the configured playback length.
func (n *Noise) DurationSeconds() float64 {
	return n.cfg.Load().duration
}

// Cleanup is a no-op; Noise holds no resources.
func (n *Noise) Cleanup() {}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
