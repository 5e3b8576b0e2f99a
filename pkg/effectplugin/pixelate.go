package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.pixelate",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "block_size", Kind: paramval.KindInt, Default: paramval.Int(4), Min: 1, Max: 64},
		},
	}, func() interface{} { return NewPixelate() })
}

// Pixelate block-averages the frame into block_size x block_size cells,
// a mosaic downsample in the same spirit as posterize.py's quantization
// but operating on spatial blocks instead of channel levels.
type Pixelate struct {
	cfg *plugin.AtomicConfig[pixelateConfig]
}

type pixelateConfig struct {
	blockSize int
}

// NewPixelate returns a Pixelate effect with 4px blocks.
func NewPixelate() *Pixelate {
	return &Pixelate{cfg: plugin.NewAtomicConfig(pixelateConfig{blockSize: 4})}
}

func (p *Pixelate) Initialize(config map[string]paramval.Value) error {
	cfg := pixelateConfig{blockSize: 4}
	if v, ok := config["block_size"]; ok {
		cfg.blockSize = int(v.Unwrap())
	}
	if cfg.blockSize < 1 {
		cfg.blockSize = 1
	}
	p.cfg.Store(cfg)
	return nil
}

func (p *Pixelate) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	block := p.cfg.Load().blockSize
	if block <= 1 {
		return f, nil
	}
	w, h := f.W, f.H
	out := frame.New(w, h)

	for by := 0; by < h; by += block {
		bh := block
		if by+bh > h {
			bh = h - by
		}
		for bx := 0; bx < w; bx += block {
			bw := block
			if bx+bw > w {
				bw = w - bx
			}
			var sumR, sumG, sumB int
			count := 0
			for y := by; y < by+bh; y++ {
				for x := bx; x < bx+bw; x++ {
					r, g, b := f.At(x, y)
					sumR += int(r)
					sumG += int(g)
					sumB += int(b)
					count++
				}
			}
			if count == 0 {
				continue
			}
			avgR := uint8(sumR / count)
			avgG := uint8(sumG / count)
			avgB := uint8(sumB / count)
			for y := by; y < by+bh; y++ {
				for x := bx; x < bx+bw; x++ {
					out.Set(x, y, avgR, avgG, avgB)
				}
			}
		}
	}
	return out, nil
}

func (p *Pixelate) Cleanup() {}
