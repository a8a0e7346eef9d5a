package registry

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/gekatateam/loggate/core"
)

var _ core.Registry = (*Registry)(nil)

// Registry keeps logger levels by dotted category names.
// Category without own level inherits it from the closest ancestor,
// e.g. "app.db.pool" from "app.db", then "app", then root.
type Registry struct {
	mu     sync.RWMutex
	root   core.Level
	levels map[string]core.Level
}

func New(root core.Level) *Registry {
	if !root.IsAssigned() {
		root = core.LevelInfo
	}

	return &Registry{
		root:   root,
		levels: make(map[string]core.Level),
	}
}

// Level returns explicitly assigned category level
func (r *Registry) Level(category string) (core.Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.levels[category]
	return l, ok
}

func (r *Registry) SetLevel(category string, level core.Level) error {
	if len(category) == 0 {
		return &core.RegistryError{Err: errors.New("category required")}
	}

	if !level.IsAssigned() {
		return &core.RegistryError{Err: fmt.Errorf("level for category %v is not assigned", category)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.levels[category] = level
	return nil
}

func (r *Registry) ClearLevel(category string) error {
	if len(category) == 0 {
		return &core.RegistryError{Err: errors.New("category required")}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.levels, category)
	return nil
}

func (r *Registry) Root() core.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.root
}

func (r *Registry) SetRoot(level core.Level) error {
	if !level.IsAssigned() {
		return &core.RegistryError{Err: errors.New("root level is not assigned")}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.root = level
	return nil
}

func (r *Registry) EffectiveLevel(category string) core.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for c := category; len(c) > 0; {
		if l, ok := r.levels[c]; ok {
			return l
		}

		i := strings.LastIndexByte(c, '.')
		if i < 0 {
			break
		}
		c = c[:i]
	}

	return r.root
}

func (r *Registry) IsLevelEnabled(category string, level core.Level) bool {
	return level.GreaterOrEqual(r.EffectiveLevel(category))
}

// Levels returns a copy of explicitly assigned levels
func (r *Registry) Levels() map[string]core.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.levels)
}
