package artnet

import (
	"sync"
	"time"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/log"
)

// Router fans a published canvas frame out to every configured Output,
// rendering and sending each independently so one output's network
// error never blocks another's. It implements player.Sink.
type Router struct {
	Sender Sender
	Logger *log.Logger

	mu      sync.Mutex
	outputs map[string]*Output
	seq     map[string]*uint8
}

// NewRouter returns an empty Router bound to sender.
func NewRouter(sender Sender, logger *log.Logger) *Router {
	return &Router{
		Sender:  sender,
		Logger:  logger,
		outputs: map[string]*Output{},
		seq:     map[string]*uint8{},
	}
}

// SetOutput adds or replaces an output by ID.
func (r *Router) SetOutput(o *Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[o.ID] = o
	if _, ok := r.seq[o.ID]; !ok {
		seq := uint8(0)
		r.seq[o.ID] = &seq
	}
}

// RemoveOutput deletes an output by ID.
func (r *Router) RemoveOutput(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.outputs, id)
	delete(r.seq, id)
}

// Outputs returns a snapshot of the configured outputs.
func (r *Router) Outputs() []*Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Output, 0, len(r.outputs))
	for _, o := range r.outputs {
		out = append(out, o)
	}
	return out
}

// Publish renders and sends canvas to every active output. Each
// output's failure is logged and isolated; it never stops the others.
func (r *Router) Publish(canvas *frame.Frame) {
	now := time.Now()
	for _, o := range r.Outputs() {
		if !o.Active {
			continue
		}
		data := Render(o, canvas, now)
		if data == nil {
			continue
		}

		r.mu.Lock()
		seq := r.seq[o.ID]
		r.mu.Unlock()
		if seq == nil {
			var s uint8
			seq = &s
		}

		if err := SendOutput(r.Sender, o, seq, 0, data); err != nil {
			if r.Logger != nil {
				r.Logger.Error().Src("artnet").Msgf("output %q send failed: %v", o.Name, err)
			}
		}
	}
}
