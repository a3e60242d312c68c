// Package errs provides the wrap/new helpers used throughout both cores.
package errs

import "fmt"

// New builds a plain error from a message, matching errors.New but keeping
// the call site consistent with Wrap below.
func New(msg string) error {
	return fmt.Errorf("%s", msg)
}

// Wrap attaches context to err, preserving it for errors.Is/errors.As.
func Wrap(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
