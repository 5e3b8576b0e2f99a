package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.blend-mode",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "mode", Kind: paramval.KindEnum, Default: paramval.Enum("normal"), Options: []string{
				"normal", "multiply", "screen", "overlay", "add", "subtract", "darken", "lighten",
				"color_dodge", "color_burn", "hard_light", "soft_light", "difference", "exclusion",
			}},
			{Name: "color", Kind: paramval.KindColor, Default: paramval.ColorValue(paramval.Color{R: 255, G: 255, B: 255})},
			{Name: "opacity", Kind: paramval.KindFloat, Default: paramval.Float(100), Min: 0, Max: 100},
			{Name: "mix", Kind: paramval.KindFloat, Default: paramval.Float(100), Min: 0, Max: 100},
		},
	}, func() interface{} { return NewBlendMode() })
}

// BlendMode blends every pixel against a fixed solid color using one of
// frame's named compositing modes, grounded on blend_mode.py's
// color-blend path (its layer-blend path is superseded by pkg/layer's
// Composite, which already exercises the same frame.Blend machinery).
type BlendMode struct {
	cfg *plugin.AtomicConfig[blendModeConfig]
}

type blendModeConfig struct {
	mode             frame.BlendMode
	r, g, b          uint8
	opacity, mix     float64
}

var blendModeByName = map[string]frame.BlendMode{
	"normal":      frame.BlendNormal,
	"multiply":    frame.BlendMultiply,
	"screen":      frame.BlendScreen,
	"overlay":     frame.BlendOverlay,
	"add":         frame.BlendAdd,
	"subtract":    frame.BlendSubtract,
	"darken":      frame.BlendDarken,
	"lighten":     frame.BlendLighten,
	"color_dodge": frame.BlendColorDodge,
	"color_burn":  frame.BlendColorBurn,
	"hard_light":  frame.BlendHardLight,
	"soft_light":  frame.BlendSoftLight,
	"difference":  frame.BlendDifference,
	"exclusion":   frame.BlendExclusion,
}

// NewBlendMode returns a BlendMode effect in its normal/white/full-opacity
// default state (a no-op on Process).
func NewBlendMode() *BlendMode {
	return &BlendMode{cfg: plugin.NewAtomicConfig(blendModeConfig{
		mode: frame.BlendNormal, r: 255, g: 255, b: 255, opacity: 100, mix: 100,
	})}
}

func (p *BlendMode) Initialize(config map[string]paramval.Value) error {
	cfg := blendModeConfig{mode: frame.BlendNormal, r: 255, g: 255, b: 255, opacity: 100, mix: 100}
	if v, ok := config["mode"]; ok {
		if m, ok := blendModeByName[v.AsEnum()]; ok {
			cfg.mode = m
		}
	}
	if v, ok := config["color"]; ok {
		c := v.AsColor()
		cfg.r, cfg.g, cfg.b = c.R, c.G, c.B
	}
	if v, ok := config["opacity"]; ok {
		cfg.opacity = v.Unwrap()
	}
	if v, ok := config["mix"]; ok {
		cfg.mix = v.Unwrap()
	}
	p.cfg.Store(cfg)
	return nil
}

func (p *BlendMode) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	cfg := p.cfg.Load()
	opacity := clamp01(cfg.opacity / 100)
	mix := clamp01(cfg.mix / 100)
	if opacity <= 0 {
		return f, nil
	}
	out := frame.New(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			px := frame.BlendPixel(cfg.mode, [3]uint8{r, g, b}, [3]uint8{cfg.r, cfg.g, cfg.b}, opacity, mix)
			out.Set(x, y, px[0], px[1], px[2])
		}
	}
	return out, nil
}

func (p *BlendMode) Cleanup() {}
