package relay

import (
	"github.com/gekatateam/loggate/gate"
)

// Controller switches gate filters on and off by gate name
type Controller interface {
	Start(name string, cfg gate.Config) error
	Stop(name string) error
	State(name string) (gate.State, error)
	List() ([]GateInfo, error)
}

type GateInfo struct {
	Name   string     `json:"name"   yaml:"name"`
	Sink   string     `json:"sink"   yaml:"sink"`
	Routes []string   `json:"routes" yaml:"routes"`
	State  gate.State `json:"state"  yaml:"state"`
}
