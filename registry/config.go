package registry

import (
	"fmt"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/core"
)

// FromConfig creates registry seeded with configured levels
func FromConfig(cfg config.Registry) (*Registry, error) {
	root, err := core.ToLevel(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root level: %w", err)
	}

	r := New(root)
	for category, name := range cfg.Levels {
		level, err := core.ToLevel(name)
		if err != nil {
			return nil, fmt.Errorf("category %v level: %w", category, err)
		}

		if err := r.SetLevel(category, level); err != nil {
			return nil, err
		}
	}

	return r, nil
}
