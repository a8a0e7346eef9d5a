package core

import (
	"io"
)

type Initer interface {
	Init() error
}

// sink plugin delivers events to outer world
type Sink interface {
	Send(e *Event) error
	io.Closer
}

// handler consumes events and never returns errors to the caller,
// failures are contained inside
type Handler interface {
	Handle(e *Event)
}

type HandlerFunc func(e *Event)

func (f HandlerFunc) Handle(e *Event) {
	f(e)
}

// process-wide logger levels by category
//
// Level returns only explicitly assigned level; false means that category
// inherits level from ancestors or default
type Registry interface {
	Level(category string) (Level, bool)
	SetLevel(category string, level Level) error
	ClearLevel(category string) error
	IsLevelEnabled(category string, level Level) bool
}

// sinks that need an encoder must implement this interface
type SetEncoder interface {
	SetEncoder(e Encoder)
}

// encoder turns event into bytes for sinks
type Encoder interface {
	Encode(e *Event) ([]byte, error)
}
