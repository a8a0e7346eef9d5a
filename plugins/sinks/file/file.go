package file

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/plugins"
)

type File struct {
	*core.BaseSink `mapstructure:"-"`
	Path           string `mapstructure:"path"`
	Append         bool   `mapstructure:"append"`

	mu   sync.Mutex
	file *os.File
	enc  core.Encoder
}

func (s *File) Init() error {
	if s.Path == "" {
		return fmt.Errorf("file path is not set")
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flag := os.O_WRONLY | os.O_CREATE
	if s.Append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	file, err := os.OpenFile(s.Path, flag, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	s.file = file
	return nil
}

func (s *File) SetEncoder(e core.Encoder) {
	s.enc = e
}

func (s *File) Send(e *core.Event) error {
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
	_, err = s.file.Write(append(event, '\n'))
	s.mu.Unlock()

	if err != nil {
		s.Log.Error("failed to write to file",
			"error", err,
			"path", s.Path,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
			),
		)
		s.Observe(metrics.EventFailed, time.Since(now))
		return err
	}

	s.Observe(metrics.EventAccepted, time.Since(now))
	return nil
}

func (s *File) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func init() {
	plugins.AddSink("file", func() core.Sink {
		return &File{
			Append: true,
		}
	})
}
