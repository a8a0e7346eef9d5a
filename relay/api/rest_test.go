package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/registry"
	"github.com/gekatateam/loggate/relay"
	"github.com/gekatateam/loggate/relay/api"
	"github.com/gekatateam/loggate/relay/model"
	"github.com/gekatateam/loggate/relay/service"
)

type testSink struct {
	mu     sync.Mutex
	events []*core.Event
}

func (s *testSink) Send(e *core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *testSink) Close() error { return nil }

func (s *testSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m []string
	for _, e := range s.events {
		m = append(m, e.Message())
	}
	return m
}

func newTestServer(t *testing.T) (*httptest.Server, *registry.Registry, *testSink) {
	t.Helper()

	r := registry.New(core.LevelInfo)
	sink := &testSink{}

	s := service.Internal(logger.Mock())
	if err := s.Add(gate.New("debug", sink, r, logger.Mock()), "test", nil); err != nil {
		t.Fatalf("gate not added: %v", err)
	}

	restApi := api.Rest(s, s, r, logger.Mock())
	mux := chi.NewRouter()
	mux.Route("/api/v1", func(r chi.Router) {
		r.Mount("/gates", restApi.GatesRouter())
		r.Mount("/events", restApi.EventsRouter())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		s.Close()
	})

	return server, r, sink
}

func doRequest(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request not created: %v", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)
	return res.StatusCode, data
}

func TestGateControl(t *testing.T) {
	server, r, _ := newTestServer(t)
	base := server.URL + "/api/v1/gates"

	tests := map[string]struct {
		method string
		path   string
		body   string
		status int
	}{
		"start-unknown-gate":  {method: http.MethodPost, path: "/unknown/start", status: http.StatusNotFound},
		"stop-unknown-gate":   {method: http.MethodPost, path: "/unknown/stop", status: http.StatusNotFound},
		"state-unknown-gate":  {method: http.MethodGet, path: "/unknown", status: http.StatusNotFound},
		"start-broken-json":   {method: http.MethodPost, path: "/debug/start", body: `{"level":`, status: http.StatusBadRequest},
		"start-unknown-key":   {method: http.MethodPost, path: "/debug/start", body: `{"colour":"red"}`, status: http.StatusBadRequest},
		"start-unknown-level": {method: http.MethodPost, path: "/debug/start", body: `{"level":"loud"}`, status: http.StatusBadRequest},
		"start-broken-filter": {method: http.MethodPost, path: "/debug/start", body: `{"filter":"(unclosed"}`, status: http.StatusBadRequest},
		"start-without-body":  {method: http.MethodPost, path: "/debug/start", status: http.StatusOK},
		"stop-known-gate":     {method: http.MethodPost, path: "/debug/stop", status: http.StatusOK},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := doRequest(t, test.method, base+test.path, test.body)
			if status != test.status {
				t.Fatalf("unexpected status - want: %v, got: %v; body: %s", test.status, status, body)
			}
		})
	}

	status, _ := doRequest(t, http.MethodPost, base+"/debug/start", `{"category":"app.db","level":"debug","filter":"timeout","force_level":true}`)
	if status != http.StatusOK {
		t.Fatalf("gate not started, status: %v", status)
	}

	if l, ok := r.Level("app.db"); !ok || l != core.LevelDebug {
		t.Fatalf("level must be forced, got: %v (%v)", l, ok)
	}

	status, body := doRequest(t, http.MethodGet, base+"/debug", "")
	if status != http.StatusOK {
		t.Fatalf("state not received, status: %v", status)
	}

	var state gate.State
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("state not decoded: %v", err)
	}

	if !state.Enabled || !state.Forced || state.Filter != "timeout" || state.Level != core.LevelDebug {
		t.Fatalf("unexpected state: %+v", state)
	}

	status, body = doRequest(t, http.MethodGet, base+"/", "")
	if status != http.StatusOK {
		t.Fatalf("list not received, status: %v", status)
	}

	var gates []relay.GateInfo
	if err := json.Unmarshal(body, &gates); err != nil {
		t.Fatalf("list not decoded: %v", err)
	}

	if len(gates) != 1 || gates[0].Name != "debug" || !gates[0].State.Enabled {
		t.Fatalf("unexpected list: %+v", gates)
	}

	doRequest(t, http.MethodPost, base+"/debug/stop", "")
	if _, ok := r.Level("app.db"); ok {
		t.Fatal("forced level must be cleared after stop")
	}
}

func TestIngest(t *testing.T) {
	server, _, sink := newTestServer(t)
	url := server.URL + "/api/v1/events"

	status, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/gates/debug/start", `{"category":"app.db","level":"debug","force_level":true}`)
	if status != http.StatusOK {
		t.Fatalf("gate not started, status: %v", status)
	}

	status, body := doRequest(t, http.MethodPost, url, `[
		{"category": "app.db", "level": "debug", "message": "pool size %d", "fields": {"size": 10}},
		{"category": "app.db", "level": "trace", "message": "too verbose"},
		{"category": "app.http", "level": "debug", "message": "other category"},
		{"category": "app.db", "level": "error", "message": "conn lost"}
	]`)
	if status != http.StatusAccepted {
		t.Fatalf("unexpected status - want: %v, got: %v; body: %s", http.StatusAccepted, status, body)
	}

	var res model.IngestResponse
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("response not decoded: %v", err)
	}

	// trace is below forced level, app.http debug is below root info
	if res.Received != 4 || res.Accepted != 2 {
		t.Fatalf("unexpected ingest result: %+v", res)
	}

	messages := sink.messages()
	if len(messages) != 2 || messages[0] != "pool size %d size=10" || messages[1] != "conn lost" {
		t.Fatalf("unexpected forwarded messages: %q", messages)
	}

	status, _ = doRequest(t, http.MethodPost, url, `{"category": "app.db", "level": "warn", "message": "single"}`)
	if status != http.StatusAccepted {
		t.Fatalf("single event not accepted, status: %v", status)
	}

	if len(sink.messages()) != 3 {
		t.Fatalf("single event not forwarded: %q", sink.messages())
	}

	for name, body := range map[string]string{
		"broken-json":   `[{"category":`,
		"unknown-level": `{"category": "app", "level": "loud", "message": "x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if status, _ := doRequest(t, http.MethodPost, url, body); status != http.StatusBadRequest {
				t.Fatalf("unexpected status - want: %v, got: %v", http.StatusBadRequest, status)
			}
		})
	}
}
