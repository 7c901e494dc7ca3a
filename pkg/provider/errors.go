package provider

import (
	"errors"
	"fmt"
)

// Error wraps any failure of the external provider (network, quota, timeout,
// malformed response). It is always recoverable: callers substitute defaults
// instead of propagating it to the end user.
type Error struct {
	Op  string // "classify" or "generate"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a provider failure.
func IsProviderError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
