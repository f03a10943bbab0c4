// Package telemetry holds optional Prometheus collectors for the splitter
// and the transformers. A nil *Metrics is valid and records nothing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "purepremium"

// Metrics groups the counters shared by the components.
type Metrics struct {
	splitRows     *prometheus.CounterVec
	clippedValues *prometheus.CounterVec
	fits          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		splitRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "split",
			Name:      "rows_total",
			Help:      "Rows labelled by the deterministic splitter, by partition.",
		}, []string{"partition"}),
		clippedValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "winsorizer",
			Name:      "clipped_values_total",
			Help:      "Values moved onto a quantile bound, by column and side.",
		}, []string{"column", "side"}),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Completed fit calls, by estimator.",
		}, []string{"estimator"}),
	}
	for _, c := range []prometheus.Collector{m.splitRows, m.clippedValues, m.fits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSplit records the size of both partitions of one split call.
func (m *Metrics) ObserveSplit(train, test int) {
	if m == nil {
		return
	}
	m.splitRows.WithLabelValues("train").Add(float64(train))
	m.splitRows.WithLabelValues("test").Add(float64(test))
}

// ObserveClip records how many values of column were raised to the lower
// bound and lowered to the upper bound.
func (m *Metrics) ObserveClip(column string, below, above int) {
	if m == nil {
		return
	}
	if below > 0 {
		m.clippedValues.WithLabelValues(column, "lower").Add(float64(below))
	}
	if above > 0 {
		m.clippedValues.WithLabelValues(column, "upper").Add(float64(above))
	}
}

// ObserveFit records a completed fit of estimator.
func (m *Metrics) ObserveFit(estimator string) {
	if m == nil {
		return
	}
	m.fits.WithLabelValues(estimator).Inc()
}
