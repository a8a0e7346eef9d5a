package json

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/plugins"
)

type Json struct{}

type event struct {
	Id        string    `json:"id"`
	Timestamp time.Time `json:"@timestamp"`
	Category  string    `json:"category,omitempty"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

func (s *Json) Encode(e *core.Event) ([]byte, error) {
	return json.Marshal(event{
		Id:        e.Id.String(),
		Timestamp: e.Timestamp,
		Category:  e.Category,
		Level:     e.Level.String(),
		Message:   e.Message(),
	})
}

func init() {
	plugins.AddEncoder("json", func() core.Encoder {
		return &Json{}
	})
}
