package generator

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.solid-color",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "color", Kind: paramval.KindColor, Default: paramval.ColorValue(paramval.Color{R: 0, G: 0, B: 0})},
			{Name: "pattern", Kind: paramval.KindEnum, Default: paramval.Enum("solid"), Options: []string{"solid", "bars"}},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(0), Min: 0, Max: 3600},
		},
	}, func() interface{} { return &SolidColor{} })
}

// SolidColor fills the canvas with one flat color, or a test-pattern
// color-bar sweep when pattern="bars" — the trivial always-available
// generator every clip falls back to before a real source is wired in.
type SolidColor struct {
	cfg *plugin.AtomicConfig[solidConfig]
}

type solidConfig struct {
	color    paramval.Color
	bars     bool
	duration float64
}

// Initialize reads color/pattern/duration from config.
func (s *SolidColor) Initialize(config map[string]paramval.Value) error {
	cfg := solidConfig{color: paramval.Color{R: 0, G: 0, B: 0}}
	if v, ok := config["color"]; ok {
		cfg.color = v.AsColor()
	}
	if v, ok := config["pattern"]; ok {
		cfg.bars = v.AsEnum() == "bars"
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	s.cfg = plugin.NewAtomicConfig(cfg)
	return nil
}

// Process fills a width x height frame per the configured pattern.
func (s *SolidColor) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	cfg := s.cfg.Load()
	f := frame.New(width, height)

	if !cfg.bars {
		f.Fill(cfg.color.R, cfg.color.G, cfg.color.B)
		return f, nil
	}

	bars := [][3]uint8{
		{255, 255, 255}, {255, 255, 0}, {0, 255, 255}, {0, 255, 0},
		{255, 0, 255}, {255, 0, 0}, {0, 0, 255}, {0, 0, 0},
	}
	barW := width / len(bars)
	if barW < 1 {
		barW = 1
	}
	for x := 0; x < width; x++ {
		bar := bars[minInt(x/barW, len(bars)-1)]
		for y := 0; y < height; y++ {
			f.Set(x, y, bar[0], bar[1], bar[2])
		}
	}
	return f, nil
}

// DurationSeconds reports the configured playback length (0 = infinite).
func (s *SolidColor) DurationSeconds() float64 {
	return s.cfg.Load().duration
}

// Cleanup is a no-op; SolidColor holds no resources.
func (s *SolidColor) Cleanup() {}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
