package logger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gekatateam/loggate/core"
)

var _ slog.Handler = (*CategoryHandler)(nil)

type LevelEnabler interface {
	IsLevelEnabled(category string, level core.Level) bool
}

// CategoryHandler turns slog records of one category into events.
//
// Whether a record is produced at all is decided by registry level
// of the category, so forcing a level there changes what reaches gates.
type CategoryHandler struct {
	category string
	levels   LevelEnabler
	next     core.Handler

	attrs  []any
	prefix string
}

func NewCategoryHandler(category string, levels LevelEnabler, next core.Handler) *CategoryHandler {
	return &CategoryHandler{
		category: category,
		levels:   levels,
		next:     next,
	}
}

func NewCategoryLogger(category string, levels LevelEnabler, next core.Handler) *slog.Logger {
	return slog.New(NewCategoryHandler(category, levels, next))
}

func (h *CategoryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.levels.IsLevelEnabled(h.category, core.FromSlog(level))
}

func (h *CategoryHandler) Handle(_ context.Context, record slog.Record) error {
	data := make([]any, 0, 1+len(h.attrs)+record.NumAttrs())
	// message goes as a value, not as a string, so it is never treated as a format
	data = append(data, slog.StringValue(record.Message))
	data = append(data, h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		data = append(data, h.withPrefix(a))
		return true
	})

	e := core.NewEvent(h.category, core.FromSlog(record.Level), data...)
	if !record.Time.IsZero() {
		e.Timestamp = record.Time
	}

	h.next.Handle(e)
	return nil
}

func (h *CategoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handler := h.clone()
	for _, a := range attrs {
		handler.attrs = append(handler.attrs, h.withPrefix(a))
	}
	return handler
}

func (h *CategoryHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}

	handler := h.clone()
	handler.prefix = h.prefix + name + "."
	return handler
}

func (h *CategoryHandler) clone() *CategoryHandler {
	return &CategoryHandler{
		category: h.category,
		levels:   h.levels,
		next:     h.next,
		attrs:    slices.Clip(h.attrs),
		prefix:   h.prefix,
	}
}

func (h *CategoryHandler) withPrefix(a slog.Attr) slog.Attr {
	if len(h.prefix) == 0 {
		return a
	}
	a.Key = h.prefix + a.Key
	return a
}
