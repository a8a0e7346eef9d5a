package console

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/plugins"
)

type Console struct {
	*core.BaseSink `mapstructure:"-"`
	Stream         string `mapstructure:"stream"`

	mu  sync.Mutex
	w   io.Writer
	enc core.Encoder
}

func (s *Console) Init() error {
	switch s.Stream {
	case "stdout":
		s.w = os.Stdout
	case "stderr":
		s.w = os.Stderr
	default:
		return fmt.Errorf("unknown stream: %v; expected one of: stdout, stderr", s.Stream)
	}

	return nil
}

func (s *Console) SetEncoder(e core.Encoder) {
	s.enc = e
}

func (s *Console) Send(e *core.Event) error {
	now := time.Now()
	event, err := s.enc.Encode(e)
	if err != nil {
		s.Log.Error("encoding failed",
			"error", err,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
			),
		)
		s.Observe(metrics.EventFailed, time.Since(now))
		return err
	}

	s.mu.Lock()
	_, err = s.w.Write(append(event, '\n'))
	s.mu.Unlock()

	if err != nil {
		s.Observe(metrics.EventFailed, time.Since(now))
		return err
	}

	s.Observe(metrics.EventAccepted, time.Since(now))
	return nil
}

func (s *Console) Close() error {
	return nil
}

func init() {
	plugins.AddSink("console", func() core.Sink {
		return &Console{
			Stream: "stdout",
		}
	})
}
