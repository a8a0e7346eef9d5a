package gate

import (
	"regexp"
	"sync"

	"github.com/gekatateam/loggate/core"
)

// Config is a control message that switches filter on
type Config struct {
	Category   string     `mapstructure:"category"    json:"category,omitempty"    toml:"category"    yaml:"category"`
	Filter     string     `mapstructure:"filter"      json:"filter,omitempty"      toml:"filter"      yaml:"filter"`
	Level      core.Level `mapstructure:"level"       json:"level,omitempty"       toml:"level"       yaml:"level"`
	ForceLevel bool       `mapstructure:"force_level" json:"force_level,omitempty" toml:"force_level" yaml:"force_level"`
}

// State is a point-in-time copy of filter fields
type State struct {
	Enabled       bool       `json:"enabled"                  toml:"enabled"        yaml:"enabled"`
	Category      string     `json:"category,omitempty"       toml:"category"       yaml:"category,omitempty"`
	Filter        string     `json:"filter,omitempty"         toml:"filter"         yaml:"filter,omitempty"`
	Level         core.Level `json:"level,omitempty"          toml:"level"          yaml:"level,omitempty"`
	ForceLevel    bool       `json:"force_level"              toml:"force_level"    yaml:"force_level"`
	Forced        bool       `json:"forced"                   toml:"forced"         yaml:"forced"`
	OriginalLevel core.Level `json:"original_level,omitempty" toml:"original_level" yaml:"original_level,omitempty"`
}

// FilterState holds runtime filter configuration of one gate
// and bookkeeping of the level it forced in the registry.
//
// All methods are safe for concurrent use; one mutex covers
// Start, Stop and IsEnabled, so events are never evaluated
// against a half-updated configuration.
type FilterState struct {
	mu sync.Mutex
	r  core.Registry

	enabled    bool
	level      core.Level
	content    *regexp.Regexp
	category   string
	forceLevel bool

	// registry level of forced category before override,
	// unassigned if category had no own level
	orgLevel       core.Level
	forcedCategory string
	isForced       bool
}

func NewFilterState(r core.Registry) *FilterState {
	return &FilterState{
		r:     r,
		level: core.LevelInfo,
	}
}

// Start applies config and enables filter.
//
// Invalid content filter is reported as *core.ConfigError, and nothing
// is changed in that case. If registry fails during level override,
// filter is stopped and *core.RegistryError is returned.
func (f *FilterState) Start(cfg Config) error {
	var content *regexp.Regexp
	if len(cfg.Filter) > 0 {
		re, err := regexp.Compile(cfg.Filter)
		if err != nil {
			return &core.ConfigError{Err: err}
		}
		content = re
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// previous override belongs to previous config
	if err := f.recoverLevelLocked(); err != nil {
		f.stopLocked()
		return err
	}

	f.category = cfg.Category
	f.content = content
	f.level = cfg.Level
	f.forceLevel = cfg.ForceLevel

	if f.level.IsAssigned() && cfg.ForceLevel {
		if err := f.forceLevelLocked(); err != nil {
			f.stopLocked()
			return err
		}
	}

	f.enabled = true
	return nil
}

// Stop disables filter and restores level of category, if it was forced.
// Filter is disabled even if restoring fails.
func (f *FilterState) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stopLocked()
}

func (f *FilterState) stopLocked() error {
	f.enabled = false
	err := f.recoverLevelLocked()

	f.level = core.LevelError
	f.content = nil
	f.category = ""
	f.forceLevel = false

	return err
}

func (f *FilterState) IsEnabled(e *core.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.enabled &&
		f.categoryMatches(e.Category) &&
		f.levelMatches(e.Level) &&
		f.contentMatches(e.Data)
}

func (f *FilterState) CategoryMatches(category string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categoryMatches(category)
}

func (f *FilterState) LevelMatches(level core.Level) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levelMatches(level)
}

func (f *FilterState) ContentMatches(data []any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contentMatches(data)
}

func (f *FilterState) categoryMatches(category string) bool {
	if len(f.category) == 0 {
		return true
	}
	return f.category == category
}

func (f *FilterState) levelMatches(level core.Level) bool {
	if !f.level.IsAssigned() {
		return true
	}
	return level.GreaterOrEqual(f.level)
}

func (f *FilterState) contentMatches(data []any) bool {
	if f.content == nil {
		return true
	}
	return f.content.MatchString(core.Format(data...))
}

// RecoverLevel restores category level changed by Start with ForceLevel.
// It makes no registry calls if nothing was forced.
func (f *FilterState) RecoverLevel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recoverLevelLocked()
}

// forceLevelLocked makes category emit events of filter level
// if registry settings suppress them before they reach the gate
func (f *FilterState) forceLevelLocked() error {
	if err := f.recoverLevelLocked(); err != nil {
		return err
	}

	if len(f.category) == 0 || f.r.IsLevelEnabled(f.category, f.level) {
		return nil
	}

	org, ok := f.r.Level(f.category)
	if err := f.r.SetLevel(f.category, f.level); err != nil {
		return asRegistryError(err)
	}

	if ok {
		f.orgLevel = org
	} else {
		f.orgLevel = core.LevelUnassigned
	}
	f.forcedCategory = f.category
	f.isForced = true

	return nil
}

func (f *FilterState) recoverLevelLocked() error {
	if !f.isForced {
		return nil
	}

	var err error
	if f.orgLevel.IsAssigned() {
		err = f.r.SetLevel(f.forcedCategory, f.orgLevel)
		f.orgLevel = core.LevelUnassigned
	} else {
		err = f.r.ClearLevel(f.forcedCategory)
	}
	f.forcedCategory = ""
	f.isForced = false

	if err != nil {
		return asRegistryError(err)
	}
	return nil
}

func (f *FilterState) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := State{
		Enabled:       f.enabled,
		Category:      f.category,
		Level:         f.level,
		ForceLevel:    f.forceLevel,
		Forced:        f.isForced,
		OriginalLevel: f.orgLevel,
	}

	if f.content != nil {
		s.Filter = f.content.String()
	}

	return s
}
