// Package metrics counts what happened during a split run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of one run.
type Metrics struct {
	reg *prometheus.Registry

	FeaturesRead      prometheus.Counter
	FeaturesSkipped   prometheus.Counter
	SplittersApplied  prometheus.Counter
	SplitCalls        *prometheus.CounterVec
	IterationOverflow prometheus.Counter
	FragmentsEmitted  prometheus.Counter
	FragmentsDropped  prometheus.Counter
}

// Split call results
const (
	ResultSplit     = "split"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

// New creates the metrics in their own registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		FeaturesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_features_read_total",
			Help: "Input features processed",
		}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_features_without_candidates_total",
			Help: "Input features with no candidate splitter in the index",
		}),
		SplittersApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_splitters_applied_total",
			Help: "Splitters that intersect an input feature",
		}),
		SplitCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linesplit_split_calls_total",
			Help: "Line splitter calls by result",
		}, []string{"result"}),
		IterationOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_iteration_overflows_total",
			Help: "Splitters abandoned after reaching the iteration cap",
		}),
		FragmentsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_fragments_emitted_total",
			Help: "Output features written",
		}),
		FragmentsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linesplit_fragments_degenerate_total",
			Help: "Degenerate fragments dropped",
		}),
	}
	m.reg.MustRegister(
		m.FeaturesRead,
		m.FeaturesSkipped,
		m.SplittersApplied,
		m.SplitCalls,
		m.IterationOverflow,
		m.FragmentsEmitted,
		m.FragmentsDropped,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteFile writes the metrics in the Prometheus text format, suitable for
// the node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

// SplitCall counts one line splitter call with its result.
func (m *Metrics) SplitCall(result string) {
	m.SplitCalls.WithLabelValues(result).Inc()
}

// Totals returns every counter summed over its labels, keyed by metric
// name.
func (m *Metrics) Totals() (map[string]float64, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64, len(families))
	for _, family := range families {
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		totals[family.GetName()] = total
	}
	return totals, nil
}
