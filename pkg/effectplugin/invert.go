package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.invert",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "amount", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0, Max: 1},
		},
	}, func() interface{} { return NewInvert() })
}

// Invert blends each pixel toward its negative (255-channel), grounded
// on invert.py's amount-weighted cv2.addWeighted blend.
type Invert struct {
	cfg *plugin.AtomicConfig[invertConfig]
}

type invertConfig struct {
	amount float64
}

// NewInvert returns an Invert effect at full inversion.
func NewInvert() *Invert {
	return &Invert{cfg: plugin.NewAtomicConfig(invertConfig{amount: 1})}
}

func (e *Invert) Initialize(config map[string]paramval.Value) error {
	cfg := invertConfig{amount: 1}
	if v, ok := config["amount"]; ok {
		cfg.amount = v.Unwrap()
	}
	e.cfg.Store(cfg)
	return nil
}

func (e *Invert) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	amount := clamp01(e.cfg.Load().amount)
	if amount <= 0 {
		return f, nil
	}
	out := frame.New(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			out.Set(x, y,
				clampByte(float64(r)*(1-amount)+float64(255-r)*amount),
				clampByte(float64(g)*(1-amount)+float64(255-g)*amount),
				clampByte(float64(b)*(1-amount)+float64(255-b)*amount))
		}
	}
	return out, nil
}

func (e *Invert) Cleanup() {}
