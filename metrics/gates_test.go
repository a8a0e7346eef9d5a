package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGateCollector(t *testing.T) {
	c := &gateCollector{}

	if n := testutil.CollectAndCount(c); n != 0 {
		t.Fatalf("collector without state function must report nothing, got: %v", n)
	}

	c.set(func() []GateStats {
		return []GateStats{
			{Name: "kafka", Category: "app.db", Enabled: true, Forced: true},
			{Name: "file", Enabled: false},
		}
	})

	expected := `
		# HELP gate_enabled Whether gate filter is enabled, 1 or 0
		# TYPE gate_enabled gauge
		gate_enabled{gate="file"} 0
		gate_enabled{gate="kafka"} 1
		# HELP gate_forced Whether gate holds a forced level in logger registry, 1 or 0
		# TYPE gate_forced gauge
		gate_forced{category="",gate="file"} 0
		gate_forced{category="app.db",gate="kafka"} 1
	`

	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}
