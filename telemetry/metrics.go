package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Step outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the step collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg leaves them
// unregistered. Collectors already registered with reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "langworkflow",
				Name:      "steps_total",
				Help:      "Total workflow steps executed by workflow, step kind and status",
			},
			[]string{"workflow", "kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "langworkflow",
				Name:      "step_duration_seconds",
				Help:      "Workflow step duration in seconds by workflow and step kind",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"workflow", "kind"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "langworkflow",
				Name:      "runs_total",
				Help:      "Total workflow runs by workflow and status",
			},
			[]string{"workflow", "status"},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.steps, err = register(reg, m.steps); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.runs, err = register(reg, m.runs); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveStep records one step execution.
func (m *Metrics) ObserveStep(workflow, kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(workflow, kind, status(err)).Inc()
	m.duration.WithLabelValues(workflow, kind).Observe(d.Seconds())
}

// ObserveRun records one workflow run.
func (m *Metrics) ObserveRun(workflow string, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(workflow, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
