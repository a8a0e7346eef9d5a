package core

import (
	"log/slog"
	"time"

	"github.com/gekatateam/loggate/metrics"
)

const KindSink = "BaseSink"

// BaseSink is embedded by every sink plugin and filled by builder
type BaseSink struct {
	Alias  string
	Plugin string

	Log *slog.Logger
	Obs metrics.SinkObserveFunc
}

func (b *BaseSink) Observe(status metrics.EventStatus, dur time.Duration) {
	b.Obs(b.Plugin, b.Alias, status, dur)
}
