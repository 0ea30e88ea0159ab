package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an operation runs before Connect succeeded.
	ErrNotInitialized = errors.New("submission: backend session not initialized")
	// ErrNotFound is returned by GetOne when no record has the requested id.
	ErrNotFound = errors.New("submission: not found")
)

// TransportError reports that the backend was unreachable or answered with an error.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("submission %s: backend status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("submission %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func asTransport(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotInitialized) {
		return err
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
