package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

var _ kafka.Logger = (*writerLogger)(nil)

// writerLogger passes kafka writer internal messages to sink logger
type writerLogger struct {
	log   *slog.Logger
	level slog.Level
}

func newLogger(log *slog.Logger, level slog.Level) *writerLogger {
	return &writerLogger{
		log:   log,
		level: level,
	}
}

func (l *writerLogger) Printf(msg string, args ...any) {
	l.log.Log(context.Background(), l.level, fmt.Sprintf(msg, args...))
}
