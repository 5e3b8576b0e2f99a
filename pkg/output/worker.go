package output

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/log"
)

// Deliverer hands a resolved, sliced frame to its final destination: a
// virtual output, a display subprocess, or an Art-Net render call.
type Deliverer interface {
	Deliver(f *frame.Frame) error
}

// Worker runs one output's resolve-crop-deliver cycle on its own
// cadence: one worker per output sink, with a single-slot drop-on-full
// queue decoupling its producer and consumer.
type Worker struct {
	ID       string
	Source   Source
	Slice    *Slice // nil means the full resolved frame, uncropped
	Resolver Resolver
	Sink     Deliverer
	FPS      float64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	logger  *log.Logger
	wg      *sync.WaitGroup
	queue   chan *frame.Frame
	dropped atomic.Uint64
}

// NewWorker builds a Worker with its single-slot queue allocated.
func NewWorker(id string, source Source, slice *Slice, resolver Resolver, sink Deliverer, fps float64, logger *log.Logger, wg *sync.WaitGroup) *Worker {
	return &Worker{
		ID:       id,
		Source:   source,
		Slice:    slice,
		Resolver: resolver,
		Sink:     sink,
		FPS:      fps,
		logger:   logger,
		wg:       wg,
		queue:    make(chan *frame.Frame, 1),
	}
}

// ErrRunning is returned by Start when the worker is already running.
var ErrRunning = errors.New("output: worker already running")

// Start launches the producer (resolves+enqueues at FPS) and consumer
// (drains the queue and delivers) goroutines.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrRunning
	}
	w.running = true

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(2)
	go w.produce(runCtx)
	go w.consume()

	return nil
}

// Stop cancels the producer; the consumer drains and exits once the
// queue is closed behind it.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// DroppedCount reports how many resolved frames were discarded because
// the consumer hadn't drained the previous one yet.
func (w *Worker) DroppedCount() uint64 {
	return w.dropped.Load()
}

func (w *Worker) produce(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.queue)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	interval := time.Second / 30
	if w.FPS > 0 {
		interval = time.Duration(float64(time.Second) / w.FPS)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f, err := w.Source.Resolve(w.Resolver)
			if err != nil {
				w.logger.Error().Src("output").Msgf("worker %s: resolve failed: %v", w.ID, err)
				continue
			}
			if w.Slice != nil {
				f = w.Slice.Extract(f)
			}
			select {
			case w.queue <- f:
			default:
				w.dropped.Add(1)
			}
		}
	}
}

func (w *Worker) consume() {
	defer w.wg.Done()
	for f := range w.queue {
		if err := w.Sink.Deliver(f); err != nil {
			w.logger.Error().Src("output").Msgf("worker %s: deliver failed: %v", w.ID, err)
		}
	}
}
