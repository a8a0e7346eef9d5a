package api

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/relay/model"
)

func toEvent(v model.Event) (*core.Event, error) {
	level, err := core.ToLevel(v.Level)
	if err != nil {
		return nil, err
	}

	data := make([]any, 0, 1+len(v.Fields))
	data = append(data, slog.StringValue(v.Message))
	for _, k := range slices.Sorted(maps.Keys(v.Fields)) {
		data = append(data, slog.Any(k, v.Fields[k]))
	}

	e := core.NewEvent(v.Category, level, data...)
	if !v.Timestamp.IsZero() {
		e.Timestamp = v.Timestamp
	}

	return e, nil
}

func errorAt(i int, err error) error {
	return fmt.Errorf("event #%v: %w", i, err)
}
