package core

// invalid gate configuration, e.g. a content filter that is not a valid regexp
type ConfigError struct{ Err error }

func (e *ConfigError) Error() string { return "config error: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// destination sink failed to accept an event
type SinkError struct{ Err error }

func (e *SinkError) Error() string { return "sink error: " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }

// logger registry refused to change or clear a level
type RegistryError struct{ Err error }

func (e *RegistryError) Error() string { return "registry error: " + e.Err.Error() }
func (e *RegistryError) Unwrap() error { return e.Err }
