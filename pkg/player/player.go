// Package player implements the Player type: a canvas, a layer stack, a
// player-level effect chain, and a set of output sinks, driven by one
// playback goroutine per player — the sole mutator of that player's
// layer state.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"lumenbridge/pkg/clip"
	"lumenbridge/pkg/effectchain"
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/layer"
	"lumenbridge/pkg/log"
	"lumenbridge/pkg/plugin"
)

// Sink receives the published canvas frame each tick. pkg/artnet's
// Router implements Sink; preview output workers do not, they pull
// frames through output.Resolver instead.
type Sink interface {
	Publish(f *frame.Frame)
}

// tickFunc is swappable for testability without a real clock.
type tickFunc func(ctx context.Context, p *Player)

// Player is a stateful pipeline: two instances exist per process, the
// "preview" player and the "Art-Net" player, differing only in canvas
// resolution and output sinks.
type Player struct {
	Name     string
	CanvasW  int
	CanvasH  int
	Registry *clip.Registry

	Stack       *layer.Stack
	EffectChain *effectchain.Chain
	Sinks       []Sink

	TickInterval time.Duration // 0 means a fixed 60 Hz tick; the master layer's source does not set the pace

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	logger *log.Logger
	wg     *sync.WaitGroup

	tick tickFunc

	lastFrameTime atomicTimeHolder
	lastCanvas    atomicFrameHolder
	currentClip   atomicUUIDHolder
}

// New returns a Player with an empty effect chain and no sinks.
func New(name string, canvasW, canvasH int, registry *clip.Registry, stack *layer.Stack, logger *log.Logger, wg *sync.WaitGroup) *Player {
	p := &Player{
		Name:        name,
		CanvasW:     canvasW,
		CanvasH:     canvasH,
		Registry:    registry,
		Stack:       stack,
		EffectChain: effectchain.New(logger),
		logger:      logger,
		wg:          wg,
		tick:        defaultTick,
	}
	return p
}

// ErrRunning is returned by Start when the player is already running.
var ErrRunning = errors.New("player: already running")

// Start begins the playback goroutine. It returns immediately; playback
// runs until the context passed to the goroutine is canceled via Stop.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrRunning
	}
	p.running = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info().Src("player").Player(p.Name).Msg("starting")

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
		}()
		p.tick(runCtx, p)
	}()

	return nil
}

// Stop cancels the playback goroutine. It does not block for exit; the
// caller's WaitGroup (shared across players) is used for ordered
// shutdown sequencing.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// sourceFrame checks that clipUUID is registered and returns a black
// canvas-sized frame for it. No source plugin is ticked and the clip's
// effect chain is not run; tests that need content pass their own
// FrameSource to RenderOnce.
func (p *Player) sourceFrame(clipUUID uuid.UUID) (*frame.Frame, error) {
	c, err := p.Registry.Get(clipUUID)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	_ = c
	return frame.New(p.CanvasW, p.CanvasH), nil
}

// RenderOnce composites one canvas frame using an explicit FrameSource,
// applies the player-level effect chain, and publishes it to every sink.
// This is the tick body defaultTick calls on a timer; exposed directly
// so tests can drive single ticks deterministically.
func (p *Player) RenderOnce(source layer.FrameSource) (*frame.Frame, error) {
	canvas, err := layer.Composite(p.Stack, p.CanvasW, p.CanvasH, source)
	if err != nil {
		return nil, err
	}

	canvas = p.EffectChain.Run(canvas, plugin.Context{CanvasW: p.CanvasW, CanvasH: p.CanvasH})

	p.lastFrameTime.store(nowFunc())
	p.lastCanvas.store(canvas)
	for _, sink := range p.Sinks {
		sink.Publish(canvas)
	}
	return canvas, nil
}

// LastFrameTime reports when the player last published a frame, for the
// status endpoint's per-player health snapshot.
func (p *Player) LastFrameTime() time.Time {
	return p.lastFrameTime.load()
}

// Canvas returns the most recently published composite frame, the
// "canvas" output source.
func (p *Player) Canvas() *frame.Frame {
	return p.lastCanvas.load()
}

// ClipFrame resolves a clip:<uuid> output source. It returns an error for
// an unregistered clip and otherwise sourceFrame's black canvas-sized
// frame; the clip's rendered content and its contribution to the last
// composite are not returned.
func (p *Player) ClipFrame(id uuid.UUID) (*frame.Frame, error) {
	if _, err := p.Registry.Get(id); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	f, err := p.sourceFrame(id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SetCurrentClip records which clip the playlist has most recently
// advanced to, resolving clip:current output sources.
func (p *Player) SetCurrentClip(id uuid.UUID) {
	p.currentClip.store(id)
}

// CurrentClip reports the clip:current target, if one has been set.
func (p *Player) CurrentClip() (uuid.UUID, bool) {
	return p.currentClip.load()
}

// Layer renders layer i in isolation against a black canvas, the
// layer:<i> output source.
func (p *Player) Layer(i int) (*frame.Frame, error) {
	layers := p.Stack.Layers()
	if i < 0 || i >= len(layers) {
		return nil, fmt.Errorf("player: layer index %d out of range", i)
	}
	solo := layer.NewStack(layers[i])
	return layer.Composite(solo, p.CanvasW, p.CanvasH, p.sourceFrame)
}

// LayerInclusive renders the composite of layers 0..i, the
// layer:<i>:inclusive output source.
func (p *Player) LayerInclusive(i int) (*frame.Frame, error) {
	layers := p.Stack.Layers()
	if i < 0 || i >= len(layers) {
		return nil, fmt.Errorf("player: layer index %d out of range", i)
	}
	sub := layer.NewStack(layers[0])
	for _, l := range layers[1 : i+1] {
		_ = sub.Append(l)
	}
	return layer.Composite(sub, p.CanvasW, p.CanvasH, p.sourceFrame)
}

func defaultTick(ctx context.Context, p *Player) {
	interval := p.TickInterval
	if interval <= 0 {
		interval = time.Second / 60
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.RenderOnce(p.sourceFrame); err != nil {
				p.logger.Error().Src("player").Player(p.Name).Msgf("render failed: %v", err)
			}
		}
	}
}

// nowFunc is a package-level indirection so tests can stub the clock.
var nowFunc = time.Now

type atomicTimeHolder struct {
	mu sync.Mutex
	t  time.Time
}

func (h *atomicTimeHolder) store(t time.Time) {
	h.mu.Lock()
	h.t = t
	h.mu.Unlock()
}

func (h *atomicTimeHolder) load() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.t
}

type atomicFrameHolder struct {
	mu sync.Mutex
	f  *frame.Frame
}

func (h *atomicFrameHolder) store(f *frame.Frame) {
	h.mu.Lock()
	h.f = f
	h.mu.Unlock()
}

func (h *atomicFrameHolder) load() *frame.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f
}

type atomicUUIDHolder struct {
	mu  sync.Mutex
	id  uuid.UUID
	set bool
}

func (h *atomicUUIDHolder) store(id uuid.UUID) {
	h.mu.Lock()
	h.id, h.set = id, true
	h.mu.Unlock()
}

func (h *atomicUUIDHolder) load() (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id, h.set
}
