package core

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Id        uuid.UUID
	Timestamp time.Time
	Category  string
	Level     Level
	// message arguments in variadic style,
	// formatted only when someone asks for text
	Data []any
}

func NewEvent(category string, level Level, data ...any) *Event {
	return &Event{
		Id:        uuid.New(),
		Timestamp: time.Now(),
		Category:  category,
		Level:     level,
		Data:      data,
	}
}

func (e *Event) Message() string {
	return Format(e.Data...)
}

func (e *Event) Clone() *Event {
	event := &Event{
		Id:        e.Id,
		Timestamp: e.Timestamp,
		Category:  e.Category,
		Level:     e.Level,
		Data:      make([]any, len(e.Data)),
	}

	copy(event.Data, e.Data)
	return event
}
