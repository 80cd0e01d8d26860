package config

import "fmt"

// Error describes a problem with a single configuration option.
type Error struct {
	Option  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Option == "" {
		return e.Message
	}
	return fmt.Sprintf("option '%s': %s", e.Option, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func invalid(option, format string, args ...interface{}) *Error {
	return &Error{Option: option, Message: fmt.Sprintf(format, args...)}
}

func wrap(option string, err error) *Error {
	return &Error{Option: option, Message: err.Error(), Cause: err}
}
