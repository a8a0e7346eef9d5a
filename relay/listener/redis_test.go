package listener

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/relay"
)

type call struct {
	action string
	gate   string
	cfg    gate.Config
}

type testController struct {
	calls []call
}

func (c *testController) Start(name string, cfg gate.Config) error {
	if name != "known" {
		return &relay.NotFoundError{Err: fmt.Errorf("gate %v not found", name)}
	}
	c.calls = append(c.calls, call{action: "start", gate: name, cfg: cfg})
	return nil
}

func (c *testController) Stop(name string) error {
	if name != "known" {
		return &relay.NotFoundError{Err: fmt.Errorf("gate %v not found", name)}
	}
	c.calls = append(c.calls, call{action: "stop", gate: name})
	return nil
}

func (c *testController) State(string) (gate.State, error) { return gate.State{}, nil }

func (c *testController) List() ([]relay.GateInfo, error) { return nil, nil }

func TestHandleMessage(t *testing.T) {
	tests := map[string]struct {
		payload  string
		expected *call
		notFound bool
		invalid  bool
	}{
		"start-with-config": {
			payload:  `{"gate":"known","action":"start","config":{"category":"app.db","level":"trace","filter":"deadlock","force_level":true}}`,
			expected: &call{action: "start", gate: "known", cfg: gate.Config{Category: "app.db", Level: core.LevelTrace, Filter: "deadlock", ForceLevel: true}},
		},
		"start-without-config": {
			payload:  `{"gate":"known","action":"start"}`,
			expected: &call{action: "start", gate: "known"},
		},
		"stop": {
			payload:  `{"gate":"known","action":"stop"}`,
			expected: &call{action: "stop", gate: "known"},
		},
		"unknown-gate": {
			payload:  `{"gate":"unknown","action":"stop"}`,
			notFound: true,
		},
		"no-gate": {
			payload: `{"action":"stop"}`,
			invalid: true,
		},
		"unknown-action": {
			payload: `{"gate":"known","action":"restart"}`,
			invalid: true,
		},
		"broken-json": {
			payload: `{"gate":`,
			invalid: true,
		},
		"unknown-config-key": {
			payload: `{"gate":"known","action":"start","config":{"severity":"debug"}}`,
			invalid: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := &testController{}
			l := Redis(config.Redis{}, c, logger.Mock())

			err := l.handle([]byte(test.payload))

			var notFoundErr *relay.NotFoundError
			var validationErr *relay.ValidationError
			switch {
			case test.notFound:
				if !errors.As(err, &notFoundErr) {
					t.Fatalf("not found error expected, got: %v", err)
				}
				return
			case test.invalid:
				if !errors.As(err, &validationErr) {
					t.Fatalf("validation error expected, got: %v", err)
				}
				if len(c.calls) != 0 {
					t.Fatalf("rejected message must not reach controller: %+v", c.calls)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(c.calls) != 1 || c.calls[0] != *test.expected {
				t.Fatalf("unexpected controller calls - want: %+v, got: %+v", *test.expected, c.calls)
			}
		})
	}
}

func TestInitRequiresServers(t *testing.T) {
	l := Redis(config.Redis{Timeout: "1s"}, &testController{}, logger.Mock())
	if err := l.Init(); err == nil {
		t.Fatal("listener without servers must not be initialized")
	}
}
