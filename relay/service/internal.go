package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gobwas/glob"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/metrics"
	xerrors "github.com/gekatateam/loggate/pkg/errors"
	"github.com/gekatateam/loggate/relay"
)

var (
	_ relay.Controller = (*internalService)(nil)
	_ core.Handler     = (*internalService)(nil)
)

type route struct {
	gate   *gate.Gate
	sink   string
	routes []string
	globs  []glob.Glob
}

// matches reports whether event category fits any of gate routes;
// gate without routes receives everything
func (r *route) matches(category string) bool {
	if len(r.globs) == 0 {
		return true
	}

	for _, g := range r.globs {
		if g.Match(category) {
			return true
		}
	}
	return false
}

type internalService struct {
	// gates set is fixed after construction, so no lock is needed for lookups
	gates map[string]*route
	order []string
	log   *slog.Logger
}

func Internal(log *slog.Logger) *internalService {
	return &internalService{
		gates: make(map[string]*route),
		log:   log,
	}
}

// Add registers gate with category routes, e.g. "app.*" or "app.{db,http}.**"
func (s *internalService) Add(g *gate.Gate, sink string, routes []string) error {
	if _, ok := s.gates[g.Name()]; ok {
		return &relay.ValidationError{Err: fmt.Errorf("gate %v already exists", g.Name())}
	}

	r := &route{
		gate:   g,
		sink:   sink,
		routes: routes,
	}

	for _, v := range routes {
		pattern, err := glob.Compile(v, '.')
		if err != nil {
			return &relay.ValidationError{Err: fmt.Errorf("gate %v route %v compilation failed: %w", g.Name(), v, err)}
		}
		r.globs = append(r.globs, pattern)
	}

	s.gates[g.Name()] = r
	s.order = append(s.order, g.Name())
	return nil
}

func (s *internalService) Handle(e *core.Event) {
	for _, name := range s.order {
		r := s.gates[name]
		if r.matches(e.Category) {
			r.gate.Handle(e)
		}
	}
}

func (s *internalService) Start(name string, cfg gate.Config) error {
	r, ok := s.gates[name]
	if !ok {
		return &relay.NotFoundError{Err: fmt.Errorf("gate %v not found", name)}
	}

	err := r.gate.Start(cfg)

	var configErr *core.ConfigError
	var registryErr *core.RegistryError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &configErr):
		return &relay.ValidationError{Err: err}
	case errors.As(err, &registryErr):
		s.log.Error("gate startup failed",
			"error", err,
			slog.Group("gate",
				"name", name,
			),
		)
		return &relay.IOError{Err: err}
	default:
		return err
	}
}

func (s *internalService) Stop(name string) error {
	r, ok := s.gates[name]
	if !ok {
		return &relay.NotFoundError{Err: fmt.Errorf("gate %v not found", name)}
	}

	if err := r.gate.Stop(); err != nil {
		s.log.Error("level recovery failed on gate stop",
			"error", err,
			slog.Group("gate",
				"name", name,
			),
		)
		return &relay.IOError{Err: err}
	}

	return nil
}

func (s *internalService) State(name string) (gate.State, error) {
	r, ok := s.gates[name]
	if !ok {
		return gate.State{}, &relay.NotFoundError{Err: fmt.Errorf("gate %v not found", name)}
	}

	return r.gate.State(), nil
}

func (s *internalService) List() ([]relay.GateInfo, error) {
	info := make([]relay.GateInfo, 0, len(s.order))
	for _, name := range s.order {
		r := s.gates[name]
		info = append(info, relay.GateInfo{
			Name:   name,
			Sink:   r.sink,
			Routes: slices.Clone(r.routes),
			State:  r.gate.State(),
		})
	}

	return info, nil
}

func (s *internalService) Stats() []metrics.GateStats {
	stats := make([]metrics.GateStats, 0, len(s.order))
	for _, name := range s.order {
		state := s.gates[name].gate.State()
		stats = append(stats, metrics.GateStats{
			Name:     name,
			Category: state.Category,
			Enabled:  state.Enabled,
			Forced:   state.Forced,
		})
	}

	return stats
}

// Close stops every gate, restoring forced levels, and closes sinks
func (s *internalService) Close() error {
	errs := xerrors.Errorlist{}
	for _, name := range s.order {
		if err := s.gates[name].gate.Close(); err != nil {
			s.log.Error("gate closed with error",
				"error", err,
				slog.Group("gate",
					"name", name,
				),
			)
			errs = append(errs, fmt.Errorf("gate %v: %w", name, err))
		}
	}

	return errs.Err()
}
