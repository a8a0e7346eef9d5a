package gate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/metrics"
)

var _ core.Handler = (*Gate)(nil)

// Gate forwards events to sink while filter state lets them through.
//
// Any failure while evaluating or forwarding an event stops the filter,
// so gate drops everything until next Start.
type Gate struct {
	name  string
	state *FilterState
	sink  core.Sink
	log   *slog.Logger
	obs   metrics.GateObserveFunc
}

type Option func(g *Gate)

// WithObserver replaces default summary observer
func WithObserver(obs metrics.GateObserveFunc) Option {
	return func(g *Gate) {
		g.obs = obs
	}
}

func New(name string, sink core.Sink, r core.Registry, log *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		name:  name,
		state: NewFilterState(r),
		sink:  sink,
		log:   log,
		obs:   metrics.ObserveGateSummary,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gate) Name() string {
	return g.name
}

func (g *Gate) Handle(e *core.Event) {
	now := time.Now()

	passed, err := g.handle(e)
	switch {
	case err != nil:
		g.log.Error("gate failed, filter stopped",
			"error", err,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
				"level", e.Level,
			),
		)
		if err := g.state.Stop(); err != nil {
			g.log.Error("level recovery failed while stopping filter",
				"error", err,
			)
		}
		g.obs(g.name, metrics.EventFailed, time.Since(now))
	case passed:
		g.obs(g.name, metrics.EventAccepted, time.Since(now))
	default:
		g.obs(g.name, metrics.EventRejected, time.Since(now))
	}
}

func (g *Gate) handle(e *core.Event) (passed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &core.SinkError{Err: fmt.Errorf("panic recovered: %v", r)}
		}
	}()

	if !g.state.IsEnabled(e) {
		return false, nil
	}

	if err := g.sink.Send(e); err != nil {
		return false, asSinkError(err)
	}

	return true, nil
}

func (g *Gate) Start(cfg Config) error {
	if err := g.state.Start(cfg); err != nil {
		return err
	}

	g.log.Info("gate filter started",
		"category", cfg.Category,
		"filter", cfg.Filter,
		"level", cfg.Level,
		"force_level", cfg.ForceLevel,
	)
	return nil
}

func (g *Gate) Stop() error {
	err := g.state.Stop()
	g.log.Info("gate filter stopped")
	return err
}

func (g *Gate) State() State {
	return g.state.State()
}

// Close stops filter and closes sink
func (g *Gate) Close() error {
	return errors.Join(g.state.Stop(), g.sink.Close())
}

func asSinkError(err error) error {
	var sinkErr *core.SinkError
	if errors.As(err, &sinkErr) {
		return err
	}
	return &core.SinkError{Err: err}
}

func asRegistryError(err error) error {
	var registryErr *core.RegistryError
	if errors.As(err, &registryErr) {
		return err
	}
	return &core.RegistryError{Err: err}
}
