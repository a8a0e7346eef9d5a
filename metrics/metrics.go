package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type EventStatus string

const (
	EventAccepted EventStatus = "accepted"
	EventRejected EventStatus = "rejected"
	EventFailed   EventStatus = "failed"
)

type GateObserveFunc func(gate string, status EventStatus, t time.Duration)

type SinkObserveFunc func(sink, name string, status EventStatus, t time.Duration)

var (
	gateSummary *prometheus.SummaryVec
	sinkSummary *prometheus.SummaryVec

	gates       *gateCollector
	gateEnabled *prometheus.Desc
	gateForced  *prometheus.Desc
)

func init() {
	// status="(accepted|rejected|failed)"
	gateSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "gate_processed_events",
			Help:       "Events statistic for gates",
			MaxAge:     time.Minute,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"gate", "status"},
	)

	// status="(accepted|failed)"
	sinkSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "sink_processed_events",
			Help:       "Events statistic for sinks",
			MaxAge:     time.Minute,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"sink", "name", "status"},
	)

	gates = &gateCollector{}
	gateEnabled = prometheus.NewDesc(
		"gate_enabled",
		"Whether gate filter is enabled, 1 or 0",
		[]string{"gate"},
		nil,
	)
	gateForced = prometheus.NewDesc(
		"gate_forced",
		"Whether gate holds a forced level in logger registry, 1 or 0",
		[]string{"gate", "category"},
		nil,
	)

	prometheus.MustRegister(gateSummary)
	prometheus.MustRegister(sinkSummary)
	prometheus.MustRegister(gates)
}

func ObserveMock(gate string, status EventStatus, t time.Duration) {}

func ObserveSinkMock(sink, name string, status EventStatus, t time.Duration) {}

func ObserveGateSummary(gate string, status EventStatus, t time.Duration) {
	gateSummary.WithLabelValues(gate, string(status)).Observe(t.Seconds())
}

func ObserveSinkSummary(sink, name string, status EventStatus, t time.Duration) {
	sinkSummary.WithLabelValues(sink, name, string(status)).Observe(t.Seconds())
}

func CollectGates(statFunc func() []GateStats) {
	gates.set(statFunc)
}
