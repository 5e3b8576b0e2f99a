package diag

import "github.com/prometheus/client_golang/prometheus"

// metrics wraps the Prometheus collectors the monitor publishes. Each
// Monitor owns its own registry rather than registering against
// prometheus's global DefaultRegisterer, so constructing more than one
// Monitor (as tests do) never panics on a duplicate-collector
// registration.
type metrics struct {
	registry *prometheus.Registry

	cpuPercent    prometheus.Gauge
	ramPercent    prometheus.Gauge
	fpsGateDrops  prometheus.Counter
	sourceFaults  *prometheus.GaugeVec
	outputDropped *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lumenbridge",
			Subsystem: "system",
			Name:      "cpu_percent",
			Help:      "Host CPU usage percent as sampled by gopsutil.",
		}),
		ramPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lumenbridge",
			Subsystem: "system",
			Name:      "ram_percent",
			Help:      "Host RAM usage percent as sampled by gopsutil.",
		}),
		fpsGateDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lumenbridge",
			Subsystem: "artnet",
			Name:      "fps_gate_drops_total",
			Help:      "Render ticks skipped by the Art-Net FPS gate.",
		}),
		sourceFaults: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lumenbridge",
			Subsystem: "source",
			Name:      "fault_count",
			Help:      "Cumulative fault count for a clip's source plugin.",
		}, []string{"clip_id"}),
		outputDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lumenbridge",
			Subsystem: "output",
			Name:      "dropped_frames_total",
			Help:      "Frames dropped by an output worker's single-slot queue.",
		}, []string{"output"}),
	}

	m.registry.MustRegister(m.cpuPercent, m.ramPercent, m.fpsGateDrops, m.sourceFaults, m.outputDropped)
	return m
}

func (m *metrics) observeSystem(s SystemStatus) {
	m.cpuPercent.Set(float64(s.CPUPercent))
	m.ramPercent.Set(float64(s.RAMPercent))
}
