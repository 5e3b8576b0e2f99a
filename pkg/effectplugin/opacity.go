package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.opacity",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "opacity", Kind: paramval.KindFloat, Default: paramval.Float(100), Min: 0, Max: 100},
		},
	}, func() interface{} { return NewOpacity() })
}

// Opacity fades a frame toward black, grounded on blend_mode.py's opacity
// parameter isolated into its own minimal plugin.
type Opacity struct {
	cfg *plugin.AtomicConfig[opacityConfig]
}

type opacityConfig struct {
	opacityPct float64
}

// NewOpacity returns an Opacity effect at full (100%) opacity.
func NewOpacity() *Opacity {
	return &Opacity{cfg: plugin.NewAtomicConfig(opacityConfig{opacityPct: 100})}
}

func (o *Opacity) Initialize(config map[string]paramval.Value) error {
	cfg := opacityConfig{opacityPct: 100}
	if v, ok := config["opacity"]; ok {
		cfg.opacityPct = v.Unwrap()
	}
	o.cfg.Store(cfg)
	return nil
}

func (o *Opacity) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	pct := clamp01(o.cfg.Load().opacityPct / 100)
	if pct >= 1 {
		return f, nil
	}
	out := frame.New(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			out.Set(x, y,
				clampByte(float64(r)*pct),
				clampByte(float64(g)*pct),
				clampByte(float64(b)*pct))
		}
	}
	return out, nil
}

func (o *Opacity) Cleanup() {}
