package gate

import (
	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/pkg/mapstructure"
)

// DecodeConfig builds config from a raw control message, e.g.
//
//	{"category": "app.db", "filter": "timeout", "level": "debug", "force_level": true}
//
// Unknown keys and unknown level names are reported as *core.ConfigError.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	if err := mapstructure.Strict(raw, &cfg); err != nil {
		return Config{}, &core.ConfigError{Err: err}
	}
	return cfg, nil
}
