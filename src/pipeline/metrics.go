package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

const (
	resultOK      = "ok"
	resultFailed  = "failed"
	resultMissing = "missing"
)

// Metrics counts what a run produced. It owns a private registry so runs never touch
// the global default one; WriteFile exports it in textfile-collector format.
type Metrics struct {
	reg         *prometheus.Registry
	records     *prometheus.CounterVec
	charts      *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	experiments *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmviz_records_loaded_total",
			Help: "Telemetry records loaded, by kind.",
		}, []string{"kind"}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmviz_charts_rendered_total",
			Help: "Chart artifacts written, by kind.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmviz_charts_skipped_total",
			Help: "Charts skipped for lack of data, by kind.",
		}, []string{"kind"}),
		experiments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmviz_batch_experiments_total",
			Help: "Batch-mode experiment locations, by result.",
		}, []string{"result"}),
	}
	m.reg.MustRegister(m.records, m.charts, m.skipped, m.experiments)
	return m
}

// WriteFile writes all metrics to path atomically in the node_exporter textfile format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func (m *Metrics) recordsLoaded(k types.Kind, n int) {
	m.records.WithLabelValues(k.String()).Add(float64(n))
}

func (m *Metrics) chartRendered(k types.Kind) {
	m.charts.WithLabelValues(k.String()).Inc()
}

func (m *Metrics) chartsSkipped(k types.Kind, n int) {
	if n > 0 {
		m.skipped.WithLabelValues(k.String()).Add(float64(n))
	}
}

func (m *Metrics) experiment(result string) {
	m.experiments.WithLabelValues(result).Inc()
}
