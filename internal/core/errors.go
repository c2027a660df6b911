package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData           = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for analysis"}

	// Feed errors
	ErrFeedFailed = &Error{Code: "FEED_FAILED", Message: "candle feed failed"}

	// Validation errors
	ErrInvalidCandidate  = &Error{Code: "CANDIDATE_INVALID", Message: "candidate signal geometrically invalid"}
	ErrLowRiskReward     = &Error{Code: "RR_TOO_LOW", Message: "risk/reward below configured minimum"}
	ErrStaleEntry        = &Error{Code: "ENTRY_STALE", Message: "entry too far from current market price"}
	ErrDirectionCooldown = &Error{Code: "DIRECTION_COOLDOWN", Message: "equal-direction signal within cooldown"}
	ErrDuplicateSignal   = &Error{Code: "SIGNAL_DUPLICATE", Message: "duplicate signal within dedup window"}

	// Backtest errors
	ErrBacktestInput = &Error{Code: "BACKTEST_INPUT", Message: "invalid backtest input"}

	// Storage errors
	ErrStoreFailed    = &Error{Code: "STORE_FAILED", Message: "signal store operation failed"}
	ErrSignalNotFound = &Error{Code: "SIGNAL_NOT_FOUND", Message: "signal not found"}

	// Notifier errors
	ErrNotifierFailed = &Error{Code: "NOTIFIER_FAILED", Message: "notifier failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
