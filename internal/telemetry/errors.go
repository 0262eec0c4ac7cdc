package telemetry

import "github.com/pkg/errors"

// Kind identifies one of the error categories the coordinator recognizes.
// A deadline expiry reaches a response envelope as its Kind string; other
// adapter failures carry their error message there, never a stack trace.
type Kind string

const (
	// KindInvalidDexKey is returned by registry lookups for an unknown key.
	// Recovered locally by the coordinator; never propagated to a caller
	// except through GetDexByKey itself.
	KindInvalidDexKey Kind = "InvalidDexKey"
	// KindTimeout marks a per-call deadline expiry.
	KindTimeout Kind = "Timeout"
	// KindAdapterInternal marks any other adapter-side failure.
	KindAdapterInternal Kind = "AdapterInternal"
	// KindInvalidQuoteShape marks a validation-pass rejection.
	KindInvalidQuoteShape Kind = "InvalidQuoteShape"
	// KindInvalidCalldataGasCost marks a mixed scalar/sequence or
	// length-mismatched calldata gas cost.
	KindInvalidCalldataGasCost Kind = "InvalidCalldataGasCost"
	// KindLifecycleFailure marks an init/release failure; always retried,
	// never surfaced to a caller.
	KindLifecycleFailure Kind = "LifecycleFailure"
)

// Error wraps a Kind with the dex key and underlying cause it occurred for.
// Error() renders a short message safe to embed in a diagnostic envelope;
// the cause itself is only ever logged, never returned from a public API.
type Error struct {
	Kind   Kind
	DexKey string
	cause  error
}

// NewError builds a telemetry.Error, wrapping cause with pkg/errors so the
// log stream retains a stack-aware chain.
func NewError(kind Kind, dexKey string, cause error) *Error {
	return &Error{
		Kind:   kind,
		DexKey: dexKey,
		cause:  errors.WithStack(cause),
	}
}

func (e *Error) Error() string {
	if e.DexKey == "" {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.DexKey
}

// Unwrap exposes the wrapped cause for errors.Is/As, but callers building
// response envelopes must use Error()/Kind, never Unwrap(), to avoid
// leaking a stack trace downstream.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped error for logging.
func (e *Error) Cause() error {
	return e.cause
}

// ErrInvalidDexKey is the sentinel compared against with errors.Is.
var ErrInvalidDexKey = errors.New("invalid dex key")
