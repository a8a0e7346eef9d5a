package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/core"
)

var Default = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	Level:       slog.LevelInfo,
	ReplaceAttr: attrReplacer,
}))

func Init(cfg config.Common) error {
	var opts = &slog.HandlerOptions{
		ReplaceAttr: attrReplacer,
	}
	var handler slog.Handler = nil

	level, err := core.ToLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("unknown log level: %v", cfg.LogLevel)
	}
	opts.Level = level.Slog()

	switch f := cfg.LogFormat; f {
	case "logfmt":
		handler = slog.NewTextHandler(os.Stdout, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		return fmt.Errorf("unknown log format: %v", f)
	}

	logger := slog.New(handler)
	if len(cfg.LogFields) > 0 {
		for k, v := range cfg.LogFields {
			logger = logger.With(k, v)
		}
	}

	Default = logger

	return nil
}

func Mock() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func attrReplacer(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		a.Key = "@timestamp"
	}

	if a.Key == slog.MessageKey {
		a.Key = "message"
	}

	// slog prints levels beyond its own scale as DEBUG-4 and ERROR+4
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(core.FromSlog(l).String())
		}
	}

	return a
}
