package plugins

import (
	"fmt"

	"github.com/gekatateam/loggate/core"
)

// sinks
type sinkFunc func() core.Sink

var sinks = make(map[string]sinkFunc)

func AddSink(key string, s sinkFunc) {
	_, exists := sinks[key]
	if exists {
		panic(fmt.Errorf("duplicate sink func added: %v", key))
	}

	sinks[key] = s
}

func GetSink(key string) (sinkFunc, bool) {
	s, ok := sinks[key]
	return s, ok
}

// encoders
type encoderFunc func() core.Encoder

var encoders = make(map[string]encoderFunc)

func AddEncoder(key string, e encoderFunc) {
	_, exists := encoders[key]
	if exists {
		panic(fmt.Errorf("duplicate encoder func added: %v", key))
	}

	encoders[key] = e
}

func GetEncoder(key string) (encoderFunc, bool) {
	e, ok := encoders[key]
	return e, ok
}
