package transition

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "transition.fade",
		Kind: plugin.KindTransition,
		Schema: plugin.Schema{
			{Name: "duration_s", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0.1, Max: 10},
		},
	}, func() interface{} { return NewFade() })
}

// Fade is the built-in straight crossfade transition: a linear-opacity
// blend of the outgoing frame under the incoming one, reusing the same
// blend math every layer composite uses.
type Fade struct {
	duration *plugin.AtomicConfig[fadeConfig]
}

type fadeConfig struct {
	durationS float64
}

// NewFade returns a Fade with its default one-second duration.
func NewFade() *Fade {
	return &Fade{duration: plugin.NewAtomicConfig(fadeConfig{durationS: 1})}
}

// Initialize reads duration_s out of config.
func (f *Fade) Initialize(config map[string]paramval.Value) error {
	cfg := fadeConfig{durationS: 1}
	if v, ok := config["duration_s"]; ok {
		cfg.durationS = v.Unwrap()
	}
	f.duration.Store(cfg)
	return nil
}

// Blend crossfades a (outgoing) under b (incoming) at progress.
func (f *Fade) Blend(a, b *frame.Frame, progress float64) (*frame.Frame, error) {
	return frame.BlendFrame(a, b, frame.BlendNormal, progress, 1.0), nil
}

// DurationSeconds reports the configured transition length.
func (f *Fade) DurationSeconds() float64 {
	return f.duration.Load().durationS
}

// Cleanup is a no-op; Fade holds no resources.
func (f *Fade) Cleanup() {}
