package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/relay"
	"github.com/gekatateam/loggate/relay/model"
)

type restApi struct {
	c      relay.Controller
	h      core.Handler
	levels logger.LevelEnabler
	log    *slog.Logger
}

func Rest(c relay.Controller, h core.Handler, levels logger.LevelEnabler, log *slog.Logger) *restApi {
	return &restApi{c: c, h: h, levels: levels, log: log}
}

func (a *restApi) GatesRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", a.List())
	router.Get("/{name}", a.State())
	router.Post("/{name}/start", a.Start())
	router.Post("/{name}/stop", a.Stop())
	return router
}

func (a *restApi) EventsRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", a.Ingest())
	return router
}

// POST /gates/{name}/start
func (a *restApi) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		raw := make(map[string]any)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(model.ErrToJson(err.Error()))
			return
		}

		if len(data) > 0 {
			if err := json.Unmarshal(data, &raw); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write(model.ErrToJson(err.Error()))
				return
			}
		}

		cfg, err := gate.DecodeConfig(raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(model.ErrToJson(err.Error()))
			return
		}

		err = a.c.Start(name, cfg)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
			w.Write(model.OkToJson("started"))
		default:
			a.writeError(w, r, err)
		}
	}
}

// POST /gates/{name}/stop
func (a *restApi) Stop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		err := a.c.Stop(name)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
			w.Write(model.OkToJson("stopped"))
		default:
			a.writeError(w, r, err)
		}
	}
}

// GET /gates/{name}
func (a *restApi) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		state, err := a.c.State(name)
		switch {
		case err == nil:
			data, _ := json.Marshal(state)
			w.WriteHeader(http.StatusOK)
			w.Write(data)
		default:
			a.writeError(w, r, err)
		}
	}
}

// GET /gates/
func (a *restApi) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gates, err := a.c.List()
		switch {
		case err == nil:
			data, _ := json.Marshal(gates)
			w.WriteHeader(http.StatusOK)
			w.Write(data)
		default:
			a.writeError(w, r, err)
		}
	}
}

// POST /events
//
// Body is one event or an array of events. Events below
// registry level of their category are dropped here, as a local
// logger would never produce them.
func (a *restApi) Ingest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(model.ErrToJson(err.Error()))
			return
		}

		events, err := unmarshalEvents(data)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(model.ErrToJson(err.Error()))
			return
		}

		accepted := 0
		for _, e := range events {
			if !a.levels.IsLevelEnabled(e.Category, e.Level) {
				continue
			}
			a.h.Handle(e)
			accepted++
		}

		data, _ = json.Marshal(model.IngestResponse{
			Received: len(events),
			Accepted: accepted,
		})
		w.WriteHeader(http.StatusAccepted)
		w.Write(data)
	}
}

func (a *restApi) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFoundErr *relay.NotFoundError
	var validationErr *relay.ValidationError
	var ioErr *relay.IOError

	switch {
	case errors.As(err, &notFoundErr):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
	case errors.As(err, &ioErr):
		w.WriteHeader(http.StatusInternalServerError)
	default:
		a.log.Error("internal error",
			"error", err,
			"path", r.URL.Path,
		)
		w.WriteHeader(http.StatusInternalServerError)
	}
	w.Write(model.ErrToJson(err.Error()))
}

func unmarshalEvents(data []byte) ([]*core.Event, error) {
	var raw []model.Event
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	} else {
		var single model.Event
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		raw = append(raw, single)
	}

	events := make([]*core.Event, 0, len(raw))
	for i, v := range raw {
		e, err := toEvent(v)
		if err != nil {
			return nil, &core.ConfigError{Err: errorAt(i, err)}
		}
		events = append(events, e)
	}

	return events, nil
}
