package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors as sentinel values
var (
	// ErrNotFound means the entity is absent from every source consulted.
	ErrNotFound = errors.New("entity not found")

	// ErrNotAvailable means the purchase is missing or only partially
	// propagated. It is consumed by the retry scheduler and never returned
	// to process callers.
	ErrNotAvailable = errors.New("record not yet available")

	// Payload errors
	ErrInvalidPayload = errors.New("invalid sale payload")
	ErrEmptyKey       = errors.New("entity key cannot be empty")
)

// TransientError wraps a failure that may succeed if repeated: timeouts,
// quota exhaustion, 5xx responses, unavailable backends.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError wraps a failure that repeating cannot fix: malformed input,
// invalid ids, rejected credentials.
type PermanentError struct {
	Op  string
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent failure in %s: %v", e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError. A nil err stays nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

// Permanent wraps err as a PermanentError. A nil err stays nil.
func Permanent(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Op: op, Err: err}
}

// IsTransient reports whether err (or anything it wraps) is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsPermanent reports whether err (or anything it wraps) is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// ExhaustedRetriesError is returned when a purchase never became available
// within the retry budget.
type ExhaustedRetriesError struct {
	ID       string
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	msg := fmt.Sprintf("purchase %s still unavailable after %d attempts (%s waited)", e.ID, e.Attempts, e.Elapsed)
	if e.LastErr != nil && !errors.Is(e.LastErr, ErrNotAvailable) {
		msg += fmt.Sprintf(": last error: %v", e.LastErr)
	}
	return msg
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}
