package captable

import (
	"errors"
	"fmt"
)

// The engine classifies failures in three kinds. ValidationError means the
// input was malformed and computation never started. ComputationError means an
// invariant broke mid-computation; the engine fails fast rather than return a
// plausible-looking wrong number. IntegrityError is a post-condition failure
// reported by CheckIntegrity; it is non-fatal by default and callers decide
// whether to block on it.

// ValidationError reports malformed input rejected before computation.
type ValidationError struct {
	Msg string
	Err error // optional sentinel, e.g. ErrMissingPreMoney
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

// ComputationError reports an invariant violation detected mid-computation.
type ComputationError struct {
	Msg string
}

func (e *ComputationError) Error() string { return e.Msg }

// IntegrityError reports a post-condition failure from an integrity check.
type IntegrityError struct {
	Check string // which conservation law failed
	Msg   string
}

func (e *IntegrityError) Error() string { return fmt.Sprintf("%s: %s", e.Check, e.Msg) }

// Sentinels for the failure modes callers are expected to branch on.
var (
	// ErrMissingPreMoney is returned when a SAFE conversion is triggered by a
	// round that carries no pre-money valuation.
	ErrMissingPreMoney = errors.New("trigger round has no pre-money valuation")
	// ErrAmbiguousValuation is returned when a priced round does not carry
	// exactly one of pre-money, post-money, or share price.
	ErrAmbiguousValuation = errors.New("exactly one of pre-money, post-money or share price is required")
	// ErrInsufficientPool is returned when a grant exceeds the option pool's
	// available shares.
	ErrInsufficientPool = errors.New("grant exceeds available option pool shares")
)

func validationErr(sentinel error, format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...), Err: sentinel}
}

func computationErr(format string, args ...any) error {
	return &ComputationError{Msg: fmt.Sprintf(format, args...)}
}

// WarningKind classifies the informational findings that never block
// computation.
type WarningKind string

const (
	WarnDownRound       WarningKind = "down-round"
	WarnHighDilution    WarningKind = "high-dilution"
	WarnUnconvertedSAFE WarningKind = "unconverted-safe"
	WarnMFN             WarningKind = "mfn"
)

// Warning is an informational finding attached to a calculator result.
type Warning struct {
	Kind WarningKind
	Msg  string
}

func (w Warning) String() string { return fmt.Sprintf("[%s] %s", w.Kind, w.Msg) }

// MarshalJSON implements the json.Marshaler interface for Warning.
func (w Warning) MarshalJSON() ([]byte, error) {
	var ow jsonObjectWriter
	ow.Append("kind", string(w.Kind))
	ow.Append("msg", w.Msg)
	return ow.MarshalJSON()
}

func warnf(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
