package generator

import (
	"math"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.oscillator",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "waveform", Kind: paramval.KindEnum, Default: paramval.Enum("sine"), Options: []string{"sine", "square", "sawtooth", "triangle"}},
			{Name: "frequency", Kind: paramval.KindFloat, Default: paramval.Float(1.0), Min: 0.1, Max: 10, Step: 0.1},
			{Name: "amplitude", Kind: paramval.KindFloat, Default: paramval.Float(0.8), Min: 0.1, Max: 1.0, Step: 0.1},
			{Name: "line_count", Kind: paramval.KindInt, Default: paramval.Int(3), Min: 1, Max: 10},
			{Name: "line_width", Kind: paramval.KindInt, Default: paramval.Int(2), Min: 1, Max: 10},
			{Name: "animated", Kind: paramval.KindBool, Default: paramval.Bool(true)},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(10), Min: 1, Max: 60},
		},
	}, func() interface{} { return &Oscillator{} })
}

// Oscillator draws line_count waveform traces (sine/square/sawtooth/
// triangle), ported from
// original_source/plugins/generators/oscillator.py.
type Oscillator struct {
	cfg *plugin.AtomicConfig[oscillatorConfig]
}

type oscillatorConfig struct {
	waveform              string
	frequency, amplitude  float64
	lineCount, lineWidth  int
	animated              bool
	duration              float64
}

// Initialize reads the waveform parameters from config.
func (o *Oscillator) Initialize(config map[string]paramval.Value) error {
	cfg := oscillatorConfig{waveform: "sine", frequency: 1.0, amplitude: 0.8, lineCount: 3, lineWidth: 2, animated: true, duration: 10}
	if v, ok := config["waveform"]; ok {
		cfg.waveform = v.AsEnum()
	}
	if v, ok := config["frequency"]; ok {
		cfg.frequency = v.AsFloat()
	}
	if v, ok := config["amplitude"]; ok {
		cfg.amplitude = v.AsFloat()
	}
	if v, ok := config["line_count"]; ok {
		cfg.lineCount = int(v.AsInt())
	}
	if v, ok := config["line_width"]; ok {
		cfg.lineWidth = int(v.AsInt())
	}
	if v, ok := config["animated"]; ok {
		cfg.animated = v.AsBool()
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	if cfg.lineCount < 1 {
		cfg.lineCount = 1
	}
	o.cfg = plugin.NewAtomicConfig(cfg)
	return nil
}

func waveformValue(kind string, x float64) float64 {
	switch kind {
	case "square":
		if math.Sin(x*2*math.Pi) >= 0 {
			return 1
		}
		return -1
	case "sawtooth":
		return 2*math.Mod(x, 1.0) - 1
	case "triangle":
		return 2*math.Abs(2*math.Mod(x, 1.0)-1) - 1
	default: // sine
		return math.Sin(x * 2 * math.Pi)
	}
}

// Process draws lineCount waveform traces onto a black canvas.
func (o *Oscillator) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	cfg := o.cfg.Load()
	f := frame.New(width, height)

	for line := 0; line < cfg.lineCount; line++ {
		lineY := int((float64(line) + 0.5) * float64(height) / float64(cfg.lineCount))
		phase := 0.0
		if cfg.animated {
			phase = timeSeconds * cfg.frequency
		}
		phase += float64(line) * 0.2

		yOffset := int(cfg.amplitude * float64(height) / (2 * float64(cfg.lineCount)))

		for x := 0; x < width; x++ {
			xv := float64(x) / float64(maxInt(1, width-1))
			wave := waveformValue(cfg.waveform, xv*cfg.frequency+phase)
			y := lineY + int(wave*float64(yOffset))

			for dw := -cfg.lineWidth / 2; dw <= cfg.lineWidth/2; dw++ {
				py := y + dw
				if py >= 0 && py < height {
					f.Set(x, py, 255, 255, 255)
				}
			}
		}
	}
	return f, nil
}

// DurationSeconds reports the configured playback length.
func (o *Oscillator) DurationSeconds() float64 {
	return o.cfg.Load().duration
}

// Cleanup is a no-op; Oscillator holds no resources.
func (o *Oscillator) Cleanup() {}
