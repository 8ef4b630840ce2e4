package domain

import "fmt"

// InvalidInputError reports a malformed or out-of-range input to a pure
// scorer. Malformed input is always surfaced, never silently clamped.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// InsufficientDataError reports an empty or too-short history; the
// derived result is withheld rather than guessed.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// ProviderError wraps an upstream data source failure. The monitoring
// loop treats it as "no update this cycle" and continues.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ExecutionError reports a failed trade submission. The attempt is
// recorded as a Failed TradeRecord and never retried automatically.
type ExecutionError struct {
	Reason string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execution failed: %s: %v", e.Reason, e.Err)
	}
	return "execution failed: " + e.Reason
}

func (e *ExecutionError) Unwrap() error { return e.Err }
