package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

type Plugin map[string]any

func (p Plugin) Type() string {
	typeRaw, ok := p["type"]
	if !ok {
		return ""
	}
	typeStr, ok := typeRaw.(string)
	if !ok {
		return ""
	}
	return typeStr
}

func (p Plugin) Encoder() string {
	encoderRaw, ok := p["format"]
	if !ok {
		return "json"
	}
	encoder, ok := encoderRaw.(string)
	if !ok {
		return "json"
	}
	return encoder
}

func Marshal(v any, format string) ([]byte, error) {
	switch f := strings.TrimPrefix(format, "."); f {
	case "json":
		return json.MarshalIndent(v, "", "  ")
	case "toml":
		b := &strings.Builder{}
		if err := toml.NewEncoder(b).Encode(v); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	case "yaml", "yml":
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unknown format: %v", f)
	}
}
