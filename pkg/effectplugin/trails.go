package effectplugin

import (
	"sync"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.trails",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "length", Kind: paramval.KindInt, Default: paramval.Int(5), Min: 2, Max: 30},
			{Name: "decay", Kind: paramval.KindFloat, Default: paramval.Float(0.7), Min: 0.1, Max: 0.99},
		},
	}, func() interface{} { return NewTrails() })
}

// Trails blends the current frame over a decaying history of recent
// frames, grounded on trails.py's bounded-deque ghost-trail blend. The
// history is plugin-instance state, matching the source's per-instance
// deque rather than a shared cache.
type Trails struct {
	cfg *plugin.AtomicConfig[trailsConfig]

	mu      sync.Mutex
	history []*frame.Frame
}

type trailsConfig struct {
	length int
	decay  float64
}

// NewTrails returns a Trails effect with a 5-frame history at 0.7 decay.
func NewTrails() *Trails {
	return &Trails{cfg: plugin.NewAtomicConfig(trailsConfig{length: 5, decay: 0.7})}
}

func (t *Trails) Initialize(config map[string]paramval.Value) error {
	cfg := trailsConfig{length: 5, decay: 0.7}
	if v, ok := config["length"]; ok {
		cfg.length = int(v.Unwrap())
	}
	if v, ok := config["decay"]; ok {
		cfg.decay = v.Unwrap()
	}
	if cfg.length < 2 {
		cfg.length = 2
	}
	t.cfg.Store(cfg)
	t.mu.Lock()
	t.history = nil
	t.mu.Unlock()
	return nil
}

func (t *Trails) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	cfg := t.cfg.Load()

	t.mu.Lock()
	t.history = append(t.history, f.Clone())
	if len(t.history) > cfg.length {
		t.history = t.history[len(t.history)-cfg.length:]
	}
	history := make([]*frame.Frame, len(t.history))
	copy(history, t.history)
	t.mu.Unlock()

	if len(history) < 2 {
		return f, nil
	}

	out := frame.New(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			var accR, accG, accB, weightSum float64
			weight := 1.0
			for i := len(history) - 1; i >= 0; i-- {
				r, g, b := history[i].At(x, y)
				accR += float64(r) * weight
				accG += float64(g) * weight
				accB += float64(b) * weight
				weightSum += weight
				weight *= cfg.decay
			}
			out.Set(x, y, clampByte(accR/weightSum), clampByte(accG/weightSum), clampByte(accB/weightSum))
		}
	}
	return out, nil
}

func (t *Trails) Cleanup() {
	t.mu.Lock()
	t.history = nil
	t.mu.Unlock()
}
