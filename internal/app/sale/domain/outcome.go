package domain

import "fmt"

// OutcomeStatus is the terminal state of processing one sale event.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "SENT"
	OutcomeSkipped OutcomeStatus = "SKIPPED"
	OutcomeFailed  OutcomeStatus = "FAILED"
)

// Outcome is what process callers receive. Err is set only for FAILED,
// Reason only for SKIPPED.
type Outcome struct {
	Status     OutcomeStatus
	Reason     string
	Err        error
	DispatchID string
}

// Sent builds a SENT outcome.
func Sent(dispatchID string) Outcome {
	return Outcome{Status: OutcomeSent, DispatchID: dispatchID}
}

// Skipped builds a SKIPPED outcome with a human-readable reason.
func Skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

// Failed builds a FAILED outcome.
func Failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}

func (o Outcome) String() string {
	switch o.Status {
	case OutcomeSkipped:
		return fmt.Sprintf("%s(%s)", o.Status, o.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("%s(%v)", o.Status, o.Err)
	default:
		return string(o.Status)
	}
}
