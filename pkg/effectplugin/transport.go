package effectplugin

import (
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
	"lumenbridge/pkg/transport"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "effect.transport",
		Kind: plugin.KindEffect,
		Schema: plugin.Schema{
			{Name: "transport_position", Kind: paramval.KindRange, Default: paramval.RangeValue(paramval.Range{})},
			{Name: "speed", Kind: paramval.KindFloat, Default: paramval.Float(1), Min: 0.1, Max: 10},
			{Name: "reverse", Kind: paramval.KindBool, Default: paramval.Bool(false)},
			{Name: "playback_mode", Kind: paramval.KindEnum, Default: paramval.Enum("repeat"),
				Options: []string{"repeat", "play_once", "bounce", "random"}},
			{Name: "loop_count", Kind: paramval.KindInt, Default: paramval.Int(0), Min: 0, Max: 100},
		},
	}, func() interface{} { return NewTransport() })
}

var playbackModeByName = map[string]transport.Mode{
	"repeat":    transport.ModeRepeat,
	"play_once": transport.ModePlayOnce,
	"bounce":    transport.ModeBounce,
	"random":    transport.ModeRandom,
}

// Transport wraps the frame-accurate playback state machine
// (lumenbridge/pkg/transport) as a plugin.Effect, grounded on
// transport.py's role as a system plugin that is always first in the
// chain and never deletable. Unlike every other effect it does not
// touch pixels: it owns the clip's transport.State, advances it once
// per tick, and exposes the resulting source frame position and loop
// events through its own accessor methods for the clip/source layer to
// read, since plugin.Effect's Process signature carries no return
// channel for non-pixel state.
type Transport struct {
	state *transport.State

	lastFrameNumber int64
	haveLast        bool
	lastEvent       transport.Event
}

// NewTransport returns a Transport effect with no bound source yet;
// BindSource must be called once the clip's source plugin reports its
// total frame count.
func NewTransport() *Transport {
	return &Transport{}
}

// BindSource (re-)binds the transport to a source of the given total
// frame count, preserving a still-valid trim across the swap.
func (t *Transport) BindSource(totalFrames int64) {
	if t.state == nil {
		t.state = transport.New(totalFrames)
		return
	}
	t.state.SetSource(totalFrames)
}

func (t *Transport) Initialize(config map[string]paramval.Value) error {
	if t.state == nil {
		t.state = transport.New(1)
	}
	if v, ok := config["transport_position"]; ok {
		r := v.AsRange()
		t.state.SetTrim(int64(r.Min), int64(r.Max))
		t.state.CurrentPosition = int64(r.Current)
		t.state.VirtualFrame = r.Current
	}
	if v, ok := config["speed"]; ok {
		t.state.Speed = v.Unwrap()
	}
	if v, ok := config["reverse"]; ok {
		t.state.Reverse = v.AsBool()
	}
	if v, ok := config["playback_mode"]; ok {
		if m, ok := playbackModeByName[v.AsEnum()]; ok {
			t.state.Mode = m
		}
	}
	if v, ok := config["loop_count"]; ok {
		t.state.LoopCount = int64(v.Unwrap())
	}
	return nil
}

// Process advances the transport exactly once per distinct frame number
// and passes the frame through unchanged; the actual source re-seek
// happens out of band via Position, read by the owning clip before it
// asks the source plugin for pixels.
func (t *Transport) Process(f *frame.Frame, ctx plugin.Context) (*frame.Frame, error) {
	if !t.haveLast || ctx.FrameNumber != t.lastFrameNumber {
		t.lastEvent = t.state.Tick()
		t.lastFrameNumber = ctx.FrameNumber
		t.haveLast = true
	}
	return f, nil
}

// Position returns the source frame index the clip should display this
// tick.
func (t *Transport) Position() int64 {
	return t.state.CurrentPosition
}

// LastEvent returns the transport event produced by the most recent
// tick (loop-completed, position-emitted, exhausted).
func (t *Transport) LastEvent() transport.Event {
	return t.lastEvent
}

func (t *Transport) Cleanup() {}
