package service

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/pkg/mapstructure"
	"github.com/gekatateam/loggate/plugins"
	_ "github.com/gekatateam/loggate/plugins/encoders"
	_ "github.com/gekatateam/loggate/plugins/sinks"
)

// Build creates gates with their sinks from configuration.
// Gates are created stopped; use StartConfigured to apply start sections.
func Build(cfg *config.Config, r core.Registry, log *slog.Logger) (*internalService, error) {
	s := Internal(log)

	sinks := make(map[string]core.Sink, len(cfg.Sinks))
	closeSinks := func() {
		for _, sink := range sinks {
			sink.Close()
		}
	}

	for _, g := range cfg.Gates {
		if _, ok := sinks[g.Sink]; ok {
			closeSinks()
			return nil, fmt.Errorf("gate %v: sink %v is already used by another gate", g.Name, g.Sink)
		}

		sink, err := BuildSink(g.Sink, cfg.Sinks[g.Sink], log)
		if err != nil {
			closeSinks()
			return nil, fmt.Errorf("gate %v: %w", g.Name, err)
		}
		sinks[g.Sink] = sink

		gateLog := log.With(slog.Group("gate",
			"name", g.Name,
		))

		if err := s.Add(gate.New(g.Name, sink, r, gateLog), g.Sink, g.Routes); err != nil {
			closeSinks()
			return nil, err
		}
	}

	return s, nil
}

func BuildSink(name string, cfg config.Plugin, log *slog.Logger) (core.Sink, error) {
	plugin := cfg.Type()
	sinkFunc, ok := plugins.GetSink(plugin)
	if !ok {
		return nil, fmt.Errorf("unknown sink plugin: %v", plugin)
	}
	sink := sinkFunc()

	if encoderNeedy, ok := sink.(core.SetEncoder); ok {
		encoderFunc, ok := plugins.GetEncoder(cfg.Encoder())
		if !ok {
			return nil, fmt.Errorf("%v sink: unknown encoder: %v", plugin, cfg.Encoder())
		}
		encoderNeedy.SetEncoder(encoderFunc())
	}

	baseField := reflect.ValueOf(sink).Elem().FieldByName(core.KindSink)
	if baseField.IsValid() && baseField.CanSet() {
		baseField.Set(reflect.ValueOf(&core.BaseSink{
			Alias:  name,
			Plugin: plugin,
			Log: log.With(slog.Group("sink",
				"plugin", plugin,
				"name", name,
			)),
			Obs: metrics.ObserveSinkSummary,
		}))
	} else {
		return nil, fmt.Errorf("%v sink plugin does not contains BaseSink", plugin)
	}

	if err := mapstructure.Decode(map[string]any(cfg), sink); err != nil {
		return nil, fmt.Errorf("%v sink configuration mapping error: %v", plugin, err.Error())
	}

	if initer, ok := sink.(core.Initer); ok {
		if err := initer.Init(); err != nil {
			return nil, fmt.Errorf("%v sink initialization error: %v", plugin, err.Error())
		}
	}

	return sink, nil
}

// StartConfigured starts every gate that has a start section in configuration
func (s *internalService) StartConfigured(gates []config.Gate) error {
	for _, g := range gates {
		if g.Start == nil {
			continue
		}

		gateCfg, err := gate.DecodeConfig(g.Start)
		if err != nil {
			return fmt.Errorf("gate %v: %w", g.Name, err)
		}

		if err := s.Start(g.Name, gateCfg); err != nil {
			return fmt.Errorf("gate %v: %w", g.Name, err)
		}
	}

	return nil
}
