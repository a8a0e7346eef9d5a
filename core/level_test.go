package core_test

import (
	"log/slog"
	"testing"

	"github.com/gekatateam/loggate/core"
)

func TestToLevel(t *testing.T) {
	tests := map[string]struct {
		name     string
		expected core.Level
		wantErr  bool
	}{
		"trace":      {name: "trace", expected: core.LevelTrace},
		"upper-case": {name: "DEBUG", expected: core.LevelDebug},
		"spaces":     {name: " info ", expected: core.LevelInfo},
		"warning":    {name: "warning", expected: core.LevelWarn},
		"fatal":      {name: "fatal", expected: core.LevelFatal},
		"unknown":    {name: "verbose", wantErr: true},
		"empty":      {name: "", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := core.ToLevel(test.name)
			if test.wantErr {
				if err == nil {
					t.Fatalf("error expected, got level: %v", l)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if l != test.expected {
				t.Fatalf("unexpected level - want: %v, got: %v", test.expected, l)
			}
		})
	}
}

func TestLevelText(t *testing.T) {
	var l core.Level
	if err := l.UnmarshalText([]byte("error")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l != core.LevelError {
		t.Fatalf("unexpected level - want: error, got: %v", l)
	}

	if err := l.UnmarshalText(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.IsAssigned() {
		t.Fatalf("empty text must give unassigned level, got: %v", l)
	}

	if text, _ := core.LevelUnassigned.MarshalText(); len(text) != 0 {
		t.Fatalf("unassigned level must marshal to empty text, got: %q", text)
	}
}

func TestLevelOrder(t *testing.T) {
	ordered := []core.Level{
		core.LevelTrace,
		core.LevelDebug,
		core.LevelInfo,
		core.LevelWarn,
		core.LevelError,
		core.LevelFatal,
	}

	for i := 1; i < len(ordered); i++ {
		if !ordered[i].GreaterOrEqual(ordered[i-1]) || ordered[i-1].GreaterOrEqual(ordered[i]) {
			t.Fatalf("%v must be more severe than %v", ordered[i], ordered[i-1])
		}

		if ordered[i].Slog() <= ordered[i-1].Slog() {
			t.Fatalf("slog level of %v must be above %v", ordered[i], ordered[i-1])
		}
	}

	for _, l := range ordered {
		if got := core.FromSlog(l.Slog()); got != l {
			t.Fatalf("slog round trip failed - want: %v, got: %v", l, got)
		}
	}

	if core.FromSlog(slog.LevelWarn+1) != core.LevelWarn {
		t.Fatal("levels between warn and error must be treated as warn")
	}
}
