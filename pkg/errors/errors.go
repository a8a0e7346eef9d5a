package errors

import (
	"strings"
)

// https://pkg.go.dev/go/scanner#ErrorList
type Errorlist []error

func (e Errorlist) Error() string {
	var errs []string
	for _, v := range e {
		errs = append(errs, v.Error())
	}
	return strings.Join(errs, "; ")
}

func (e Errorlist) Unwrap() []error {
	return e
}

// Err returns nil for empty list, so callers can return it directly
func (e Errorlist) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
