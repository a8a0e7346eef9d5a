package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/gekatateam/loggate/plugins/common/tls"
)

var (
	Default = Config{
		Common: Common{
			LogLevel:  "info",
			LogFormat: "logfmt",
			HttpAddr:  ":9700",
		},
		Registry: Registry{
			Root: "info",
		},
		Redis: Redis{
			Channel: "loggate.control",
			Timeout: "10s",
		},
	}
)

type Config struct {
	Common   Common            `toml:"common"   yaml:"common"   json:"common"`
	Registry Registry          `toml:"registry" yaml:"registry" json:"registry"`
	Sinks    map[string]Plugin `toml:"sinks"    yaml:"sinks"    json:"sinks"`
	Gates    []Gate            `toml:"gates"    yaml:"gates"    json:"gates"`
	Redis    Redis             `toml:"redis"    yaml:"redis"    json:"redis"`
}

type Common struct {
	LogLevel  string            `toml:"log_level"  yaml:"log_level"  json:"log_level"`
	LogFormat string            `toml:"log_format" yaml:"log_format" json:"log_format"`
	LogFields map[string]string `toml:"log_fields" yaml:"log_fields" json:"log_fields"`
	HttpAddr  string            `toml:"http_addr"  yaml:"http_addr"  json:"http_addr"`
}

// initial logger levels, categories without level inherit root
type Registry struct {
	Root   string            `toml:"root"   yaml:"root"   json:"root"`
	Levels map[string]string `toml:"levels" yaml:"levels" json:"levels"`
}

type Gate struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	Sink string `toml:"sink" yaml:"sink" json:"sink"`
	// category globs, gate receives only matching events;
	// empty list means all events
	Routes []string `toml:"routes" yaml:"routes" json:"routes"`
	// if set, gate filter is started on daemon startup
	Start map[string]any `toml:"start" yaml:"start" json:"start"`
}

// redis pub/sub control channel, disabled if no servers set
type Redis struct {
	Servers  []string `toml:"servers"  yaml:"servers"  json:"servers"`
	Username string   `toml:"username" yaml:"username" json:"username"`
	Password string   `toml:"password" yaml:"password" json:"password"`
	Channel  string   `toml:"channel"  yaml:"channel"  json:"channel"`
	Timeout  string   `toml:"timeout"  yaml:"timeout"  json:"timeout"`

	tls.TLSClientConfig `yaml:",inline"`
}

func ReadConfig(file string) (*Config, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	buf = []byte(os.ExpandEnv(string(buf)))
	config := Default

	switch e := filepath.Ext(file); e {
	case ".json":
		if err := json.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	case ".toml":
		if err := toml.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	default:
		return &config, fmt.Errorf("unknown configuration file extension: %v", e)
	}

	return &config, config.validate()
}

func (c *Config) validate() error {
	names := make(map[string]struct{}, len(c.Gates))
	for i, g := range c.Gates {
		if len(g.Name) == 0 {
			return fmt.Errorf("gate #%v has no name", i)
		}

		if _, ok := names[g.Name]; ok {
			return fmt.Errorf("duplicate gate name: %v", g.Name)
		}
		names[g.Name] = struct{}{}

		if _, ok := c.Sinks[g.Sink]; !ok {
			return fmt.Errorf("gate %v refers to unknown sink: %v", g.Name, g.Sink)
		}
	}

	if len(c.Redis.Servers) > 0 {
		if len(c.Redis.Channel) == 0 {
			return errors.New("redis channel required")
		}

		if _, err := time.ParseDuration(c.Redis.Timeout); err != nil {
			return fmt.Errorf("redis timeout: %w", err)
		}
	}

	for name, s := range c.Sinks {
		if len(s.Type()) == 0 {
			return fmt.Errorf("sink %v has no type", name)
		}
	}

	return nil
}
