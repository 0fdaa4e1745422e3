package api

import "fmt"

// StatusError is returned when the analysis service answers with a
// non-2xx status. The raw cause, if any, is wrapped for diagnostics.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Cause      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service %s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}
