package gate_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/metrics"
)

type testSink struct {
	mu     sync.Mutex
	events []*core.Event
	err    error
	panic  bool
	closed bool
}

func (s *testSink) Send(e *core.Event) error {
	if s.panic {
		panic("sink exploded")
	}

	if s.err != nil {
		return s.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *testSink) Close() error {
	s.closed = true
	return nil
}

func (s *testSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type statusCounter struct {
	mu     sync.Mutex
	counts map[metrics.EventStatus]int
}

func (c *statusCounter) observe(_ string, status metrics.EventStatus, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[status]++
}

func newTestGate(sink *testSink) (*gate.Gate, *statusCounter) {
	c := &statusCounter{counts: make(map[metrics.EventStatus]int)}
	return gate.New("test", sink, newFakeRegistry(), logger.Mock(), gate.WithObserver(c.observe)), c
}

func TestGateForwardsMatchedEvents(t *testing.T) {
	sink := &testSink{}
	g, c := newTestGate(sink)

	// disabled gate drops everything
	g.Handle(core.NewEvent("app", core.LevelError, "an error occurred"))
	if sink.count() != 0 {
		t.Fatalf("disabled gate forwarded %v events", sink.count())
	}

	if err := g.Start(gate.Config{Filter: "error", Level: core.LevelInfo}); err != nil {
		t.Fatalf("gate not started: %v", err)
	}

	passed := core.NewEvent("app", core.LevelWarn, "an error occurred")
	g.Handle(passed)
	g.Handle(core.NewEvent("app", core.LevelWarn, "all good"))
	g.Handle(core.NewEvent("app", core.LevelDebug, "an error occurred"))

	if sink.count() != 1 {
		t.Fatalf("unexpected forwarded events count - want: 1, got: %v", sink.count())
	}

	if sink.events[0] != passed {
		t.Fatal("event must be forwarded unchanged")
	}

	if c.counts[metrics.EventAccepted] != 1 || c.counts[metrics.EventRejected] != 3 {
		t.Fatalf("unexpected observed statuses: %v", c.counts)
	}
}

func TestGateContentFilterWithLiteralPercent(t *testing.T) {
	tests := map[string]struct {
		event  *core.Event
		passed bool
	}{
		"lone-message":        {event: core.NewEvent("disk", core.LevelInfo, "disk 95% used"), passed: true},
		"message-with-args":   {event: core.NewEvent("disk", core.LevelInfo, "disk %v%% used", 95), passed: true},
		"unknown-verb-kept":   {event: core.NewEvent("disk", core.LevelInfo, "disk 95% used on", "sda"), passed: true},
		"other-usage-dropped": {event: core.NewEvent("disk", core.LevelInfo, "disk 15% used"), passed: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			sink := &testSink{}
			g, _ := newTestGate(sink)
			if err := g.Start(gate.Config{Filter: "95% used"}); err != nil {
				t.Fatalf("gate not started: %v", err)
			}

			g.Handle(test.event)

			if passed := sink.count() == 1; passed != test.passed {
				t.Fatalf("unexpected result for %q - want passed: %v, got: %v", test.event.Message(), test.passed, passed)
			}
		})
	}
}

func TestGateStopsOnSinkFailure(t *testing.T) {
	tests := map[string]*testSink{
		"sink-returns-error": {err: errors.New("connection reset")},
		"sink-panics":        {panic: true},
	}

	for name, sink := range tests {
		t.Run(name, func(t *testing.T) {
			g, c := newTestGate(sink)
			if err := g.Start(gate.Config{}); err != nil {
				t.Fatalf("gate not started: %v", err)
			}

			g.Handle(core.NewEvent("app", core.LevelInfo, "first"))

			if g.State().Enabled {
				t.Fatal("gate must be disabled after sink failure")
			}

			// sink is fixed, but gate stays closed until next start
			sink.err, sink.panic = nil, false
			g.Handle(core.NewEvent("app", core.LevelInfo, "second"))

			if sink.count() != 0 {
				t.Fatalf("stopped gate forwarded %v events", sink.count())
			}

			if c.counts[metrics.EventFailed] != 1 || c.counts[metrics.EventRejected] != 1 {
				t.Fatalf("unexpected observed statuses: %v", c.counts)
			}

			if err := g.Start(gate.Config{}); err != nil {
				t.Fatalf("gate not restarted: %v", err)
			}
			g.Handle(core.NewEvent("app", core.LevelInfo, "third"))

			if sink.count() != 1 {
				t.Fatalf("restarted gate must forward events, got: %v", sink.count())
			}
		})
	}
}

func TestGateFailureRestoresForcedLevel(t *testing.T) {
	r := newFakeRegistry()
	sink := &testSink{err: errors.New("disk full")}
	g := gate.New("test", sink, r, logger.Mock(), gate.WithObserver(metrics.ObserveMock))

	if err := g.Start(gate.Config{Category: "app", Level: core.LevelTrace, ForceLevel: true}); err != nil {
		t.Fatalf("gate not started: %v", err)
	}

	if _, ok := r.Registry.Level("app"); !ok {
		t.Fatal("category level must be forced")
	}

	g.Handle(core.NewEvent("app", core.LevelTrace, "details"))

	if _, ok := r.Registry.Level("app"); ok {
		t.Fatal("forced level must be cleared after failure")
	}
}

func TestGateClose(t *testing.T) {
	sink := &testSink{}
	g, _ := newTestGate(sink)
	g.Start(gate.Config{})

	if err := g.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sink.closed {
		t.Fatal("sink must be closed")
	}

	if g.State().Enabled {
		t.Fatal("closed gate must be disabled")
	}
}

func TestGateConcurrentHandleAndControl(t *testing.T) {
	sink := &testSink{}
	g, _ := newTestGate(sink)
	wg := &sync.WaitGroup{}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				g.Handle(core.NewEvent("app", core.LevelInfo, "message %v", j))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			g.Start(gate.Config{Category: "app", Level: core.LevelDebug, ForceLevel: true})
			g.Stop()
		}
	}()

	wg.Wait()

	if g.State().Forced {
		t.Fatal("stopped gate must not hold override")
	}
}
