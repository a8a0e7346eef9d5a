package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/plugins/encoders/text"
)

type failEncoder struct{}

func (failEncoder) Encode(*core.Event) ([]byte, error) {
	return nil, errors.New("unsupported value")
}

func newTestFile(path string, appendMode bool) *File {
	return &File{
		BaseSink: &core.BaseSink{
			Alias:  "test",
			Plugin: "file",
			Log:    logger.Mock(),
			Obs:    metrics.ObserveSinkMock,
		},
		Path:   path,
		Append: appendMode,
		enc:    &text.Text{},
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "gate.log")

	s := newTestFile(path, true)
	if err := s.Init(); err != nil {
		t.Fatalf("sink not initialized: %v", err)
	}

	if err := s.Send(core.NewEvent("app", core.LevelError, "first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Close()

	s = newTestFile(path, true)
	if err := s.Init(); err != nil {
		t.Fatalf("sink not reopened: %v", err)
	}

	if err := s.Send(core.NewEvent("app", core.LevelError, "second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not readable: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("appending sink must keep both lines, got: %q", lines)
	}

	s = newTestFile(path, false)
	if err := s.Init(); err != nil {
		t.Fatalf("sink not reopened: %v", err)
	}
	s.Close()

	data, _ = os.ReadFile(path)
	if len(data) != 0 {
		t.Fatalf("truncating sink must clear file, got: %q", data)
	}
}

func TestFileSinkErrors(t *testing.T) {
	if err := newTestFile("", true).Init(); err == nil {
		t.Fatal("empty path must be rejected")
	}

	s := newTestFile(filepath.Join(t.TempDir(), "gate.log"), true)
	if err := s.Init(); err != nil {
		t.Fatalf("sink not initialized: %v", err)
	}
	defer s.Close()

	s.SetEncoder(failEncoder{})
	if err := s.Send(core.NewEvent("app", core.LevelInfo, "message")); err == nil {
		t.Fatal("encoding error must be returned")
	}
}
