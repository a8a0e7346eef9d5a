package core

import (
	"fmt"
	"log/slog"
	"strings"
)

type Level int8

// zero level means that no level is assigned,
// so it never passes through comparisons as a real severity
const (
	LevelUnassigned Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// slog has no trace and fatal levels, so they are placed
// one step below debug and one step above error
const (
	SlogTrace slog.Level = slog.LevelDebug - 4
	SlogFatal slog.Level = slog.LevelError + 4
)

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

func ToLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelUnassigned, fmt.Errorf("unknown level: %v; expected one of: trace, debug, info, warn, error, fatal", name)
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return ""
}

func (l Level) IsAssigned() bool {
	return l > LevelUnassigned && l <= LevelFatal
}

// GreaterOrEqual reports whether l is at least as severe as other
func (l Level) GreaterOrEqual(other Level) bool {
	return l >= other
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*l = LevelUnassigned
		return nil
	}

	level, err := ToLevel(string(text))
	if err != nil {
		return err
	}

	*l = level
	return nil
}

func (l Level) Slog() slog.Level {
	switch l {
	case LevelTrace:
		return SlogTrace
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelFatal:
		return SlogFatal
	default:
		return slog.LevelInfo
	}
}

func FromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelDebug:
		return LevelTrace
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	case l < SlogFatal:
		return LevelError
	default:
		return LevelFatal
	}
}
