package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ndn-sim/tracecheck/trace"
)

const metricsNamespace = "tracecheck"

// delayBuckets spans sub-millisecond to multi-second deliveries (seconds).
var delayBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// RunMetrics accumulates Prometheus metrics across one or more trace runs.
// Collectors are safe for concurrent use.
type RunMetrics struct {
	Runs       *prometheus.CounterVec
	Peers      prometheus.Counter
	Sends      prometheus.Counter
	Deliveries prometheus.Counter
	Violations prometheus.Counter
	Delay      prometheus.Histogram
}

// NewRunMetrics creates the collectors and registers them with reg.
func NewRunMetrics(reg prometheus.Registerer) *RunMetrics {
	m := &RunMetrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Trace runs by outcome",
		}, []string{"status"}),
		Peers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "peers_total",
			Help:      "Peers initialized across verified traces",
		}),
		Sends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sends_total",
			Help:      "Messages sent across verified traces",
		}),
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deliveries_total",
			Help:      "Matched receipts across verified traces",
		}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "violations_total",
			Help:      "Whole-trace violations tolerated without strict verification",
		}),
		Delay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "delivery_delay_seconds",
			Help:      "End-to-end delay from send to receipt",
			Buckets:   delayBuckets,
		}),
	}
	reg.MustRegister(m.Runs, m.Peers, m.Sends, m.Deliveries, m.Violations, m.Delay)
	return m
}

// Observe records a finalized run.
func (m *RunMetrics) Observe(res *trace.Result) {
	m.Runs.WithLabelValues("passed").Inc()
	m.Peers.Add(float64(len(res.Peers)))
	for _, p := range res.Peers {
		m.Sends.Add(float64(p.Sent))
	}
	m.Deliveries.Add(float64(len(res.Delays)))
	m.Violations.Add(float64(len(res.Violations)))
	for _, d := range res.Delays {
		m.Delay.Observe(d.Delay)
	}
}

// ObserveFailure records a run that stopped on an error.
func (m *RunMetrics) ObserveFailure() {
	m.Runs.WithLabelValues("failed").Inc()
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
