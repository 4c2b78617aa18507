package wizard

import "errors"

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStepIncomplete   = errors.New("current step is incomplete")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrClosed           = errors.New("wizard is not open")
	ErrInvalidValue     = errors.New("invalid value")
)

// SubmitError is a failure reported by the event backend. The draft is kept
// so the submission can be retried.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return "create event: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
