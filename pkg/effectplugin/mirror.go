package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.mirror",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "mode", Kind: paramval.KindEnum, Default: paramval.Enum("left_to_right"),
				Options: []string{"left_to_right", "right_to_left", "top_to_bottom", "bottom_to_top", "quad"}},
		},
	}, func() interface{} { return NewMirror() })
}

// Mirror reflects one half of the frame onto the other, grounded on
// mirror.py's five mirror modes.
type Mirror struct {
	cfg *plugin.AtomicConfig[mirrorConfig]
}

type mirrorConfig struct {
	mode string
}

// NewMirror returns a Mirror effect defaulting to left-to-right.
func NewMirror() *Mirror {
	return &Mirror{cfg: plugin.NewAtomicConfig(mirrorConfig{mode: "left_to_right"})}
}

func (m *Mirror) Initialize(config map[string]paramval.Value) error {
	cfg := mirrorConfig{mode: "left_to_right"}
	if v, ok := config["mode"]; ok {
		cfg.mode = v.AsEnum()
	}
	m.cfg.Store(cfg)
	return nil
}

func (m *Mirror) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	mode := m.cfg.Load().mode
	out := f.Clone()
	w, h := f.W, f.H

	switch mode {
	case "left_to_right":
		for y := 0; y < h; y++ {
			for x := 0; x < w/2; x++ {
				r, g, b := f.At(x, y)
				out.Set(w-1-x, y, r, g, b)
			}
		}
	case "right_to_left":
		for y := 0; y < h; y++ {
			for x := w - w/2; x < w; x++ {
				r, g, b := f.At(x, y)
				out.Set(w-1-x, y, r, g, b)
			}
		}
	case "top_to_bottom":
		for y := 0; y < h/2; y++ {
			for x := 0; x < w; x++ {
				r, g, b := f.At(x, y)
				out.Set(x, h-1-y, r, g, b)
			}
		}
	case "bottom_to_top":
		for y := h - h/2; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b := f.At(x, y)
				out.Set(x, h-1-y, r, g, b)
			}
		}
	case "quad":
		for y := 0; y < h/2; y++ {
			for x := 0; x < w/2; x++ {
				r, g, b := f.At(x, y)
				out.Set(w-1-x, y, r, g, b)
				out.Set(x, h-1-y, r, g, b)
				out.Set(w-1-x, h-1-y, r, g, b)
			}
		}
	default:
		return f, nil
	}
	return out, nil
}

func (m *Mirror) Cleanup() {}
