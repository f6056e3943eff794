package core

import (
	"errors"
	"fmt"
)

// UserFacingErrorMessage is the single generic message shown for any failed
// analysis, regardless of the underlying cause. The transport/contract
// distinction exists for logging only.
const UserFacingErrorMessage = "Analysis failed. Please try again later."

var (
	// ErrEmptyEmail is returned when the submitted text is empty after trimming
	ErrEmptyEmail = errors.New("email text is empty")

	// ErrAnalysisInFlight is returned when a submission arrives while another
	// analysis is still running. Submissions are rejected, never queued.
	ErrAnalysisInFlight = errors.New("an analysis is already in progress")

	// ErrHistoryNotFound is returned when no history item has the given id
	ErrHistoryNotFound = errors.New("history item not found")
)

// TransportError indicates the external call could not complete: the provider
// was unreachable or returned a service-level failure.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm transport failure (%s): %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContractViolationError indicates the call completed but the payload did not
// conform to the response contract: not valid JSON, a required field missing
// or mistyped, or the risk level outside the allowed enum.
type ContractViolationError struct {
	Reason string
	Err    error
}

func (e *ContractViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm response violates contract: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("llm response violates contract: %s", e.Reason)
}

func (e *ContractViolationError) Unwrap() error {
	return e.Err
}
