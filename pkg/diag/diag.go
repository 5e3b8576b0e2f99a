// Package diag implements the process's health and resource monitor: a
// gopsutil-backed CPU/RAM sampling loop combined into a richer snapshot
// covering the plugin/render pipeline itself: FPS-gate drop counts,
// last-send ages, per-output queue-drop counts and fault counts
// surfaced both as a point-in-time Snapshot and as prometheus/
// client_golang metrics for scraping.
package diag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"lumenbridge/pkg/log"
)

type (
	cpuFunc func(context.Context, time.Duration, bool) ([]float64, error)
	ramFunc func() (*mem.VirtualMemoryStat, error)
)

// SystemStatus is CPU/RAM usage as read off the host running the
// bridge.
type SystemStatus struct {
	CPUPercent int
	RAMPercent int
}

// SourceHealth is a health snapshot for one player's active source.
type SourceHealth struct {
	ClipID       string
	FaultCount   int
	LastFrameAge time.Duration
}

// OutputHealth is a health snapshot for one output worker.
type OutputHealth struct {
	Name         string
	DroppedCount uint64
	LastSendAge  time.Duration
}

// Snapshot is the full point-in-time health picture reported to the
// control plane and, in summarized form, to Prometheus.
type Snapshot struct {
	System         SystemStatus
	FPSGateDrops   uint64
	Sources        []SourceHealth
	Outputs        []OutputHealth
	LastUpdated    time.Time
}

// Monitor samples system stats on an interval and aggregates
// caller-reported pipeline health into a single Snapshot, a
// process-wide health aggregator the HTTP control surface and
// Prometheus exporter both read from.
type Monitor struct {
	cpu cpuFunc
	ram ramFunc

	duration time.Duration

	log *log.Logger

	mu       sync.Mutex
	snapshot Snapshot

	metrics *metrics
}

// New returns a Monitor sampling every 10 seconds.
func New(logger *log.Logger) *Monitor {
	return &Monitor{
		cpu:      cpu.PercentWithContext,
		ram:      mem.VirtualMemory,
		duration: 10 * time.Second,
		log:      logger,
		metrics:  newMetrics(),
	}
}

func (m *Monitor) sampleSystem(ctx context.Context) (SystemStatus, error) {
	cpuUsage, err := m.cpu(ctx, m.duration, false)
	if err != nil {
		return SystemStatus{}, fmt.Errorf("diag: could not sample cpu usage: %w", err)
	}
	ramUsage, err := m.ram()
	if err != nil {
		return SystemStatus{}, fmt.Errorf("diag: could not sample ram usage: %w", err)
	}
	cpuPct := 0.0
	if len(cpuUsage) > 0 {
		cpuPct = cpuUsage[0]
	}
	return SystemStatus{
		CPUPercent: int(cpuPct),
		RAMPercent: int(ramUsage.UsedPercent),
	}, nil
}

// Run samples system stats on Monitor's interval until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.duration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := m.sampleSystem(ctx)
			if err != nil {
				if m.log != nil {
					m.log.Error().Src("diag").Msgf("%v", err)
				}
				continue
			}
			m.mu.Lock()
			m.snapshot.System = status
			m.snapshot.LastUpdated = time.Now()
			m.mu.Unlock()
			m.metrics.observeSystem(status)
		}
	}
}

// RecordFPSGateDrop increments the FPS-gate drop counter, for reporting
// a render tick skipped to honor an output's configured FPS. pkg/artnet
// does not call it itself; the counter moves only when a caller reports.
func (m *Monitor) RecordFPSGateDrop() {
	m.mu.Lock()
	m.snapshot.FPSGateDrops++
	m.mu.Unlock()
	m.metrics.fpsGateDrops.Inc()
}

// ReportSourceHealth records the latest health reading for one source,
// replacing any prior reading for the same ClipID.
func (m *Monitor) ReportSourceHealth(h SourceHealth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.sourceFaults.WithLabelValues(h.ClipID).Set(float64(h.FaultCount))
	for i, existing := range m.snapshot.Sources {
		if existing.ClipID == h.ClipID {
			m.snapshot.Sources[i] = h
			return
		}
	}
	m.snapshot.Sources = append(m.snapshot.Sources, h)
}

// ReportOutputHealth records the latest health reading for one output,
// replacing any prior reading for the same Name.
func (m *Monitor) ReportOutputHealth(h OutputHealth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.outputDropped.WithLabelValues(h.Name).Set(float64(h.DroppedCount))
	for i, existing := range m.snapshot.Outputs {
		if existing.Name == h.Name {
			m.snapshot.Outputs[i] = h
			return
		}
	}
	m.snapshot.Outputs = append(m.snapshot.Outputs, h)
}

// Registry returns the Prometheus registry backing this Monitor's
// metrics, for mounting under an HTTP /metrics handler.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.metrics.registry
}

// Snapshot returns the current aggregated health picture.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.snapshot
	out.Sources = append([]SourceHealth(nil), m.snapshot.Sources...)
	out.Outputs = append([]OutputHealth(nil), m.snapshot.Outputs...)
	return out
}
