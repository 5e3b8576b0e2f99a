package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.saturation",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "saturation", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0, Max: 2},
		},
	}, func() interface{} { return NewSaturation() })
}

// Saturation scales the S channel of each pixel's HSV representation,
// grounded on saturation.py's cv2 BGR2HSV/HSV2BGR round-trip.
type Saturation struct {
	cfg *plugin.AtomicConfig[saturationConfig]
}

type saturationConfig struct {
	saturation float64
}

// NewSaturation returns a Saturation effect at the unmodified default.
func NewSaturation() *Saturation {
	return &Saturation{cfg: plugin.NewAtomicConfig(saturationConfig{saturation: 1})}
}

func (s *Saturation) Initialize(config map[string]paramval.Value) error {
	cfg := saturationConfig{saturation: 1}
	if v, ok := config["saturation"]; ok {
		cfg.saturation = v.Unwrap()
	}
	s.cfg.Store(cfg)
	return nil
}

func (s *Saturation) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	sat := s.cfg.Load().saturation
	if sat > 0.99 && sat < 1.01 {
		return f, nil
	}
	out := frame.New(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			h, sv, v := rgbToHSV(float64(r)/255, float64(g)/255, float64(b)/255)
			sv = clamp01(sv * sat)
			nr, ng, nb := hsvToRGB(h, sv, v)
			out.Set(x, y, clampByte(nr*255), clampByte(ng*255), clampByte(nb*255))
		}
	}
	return out, nil
}

func (s *Saturation) Cleanup() {}
