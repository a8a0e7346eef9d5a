package metrics

import "github.com/prometheus/client_golang/prometheus"

type GateStats struct {
	Name     string
	Category string
	Enabled  bool
	Forced   bool
}

type gateCollector struct {
	statFunc func() []GateStats
}

func (c *gateCollector) set(f func() []GateStats) {
	c.statFunc = f
}

func (c *gateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- gateEnabled
	ch <- gateForced
}

func (c *gateCollector) Collect(ch chan<- prometheus.Metric) {
	if c.statFunc == nil {
		return
	}

	for _, stats := range c.statFunc() {
		ch <- prometheus.MustNewConstMetric(
			gateEnabled,
			prometheus.GaugeValue,
			boolToFloat(stats.Enabled),
			stats.Name,
		)
		ch <- prometheus.MustNewConstMetric(
			gateForced,
			prometheus.GaugeValue,
			boolToFloat(stats.Forced),
			stats.Name, stats.Category,
		)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
