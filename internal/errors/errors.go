// Package errors provides structured errors that separate caller-fixable
// configuration problems from invariant violations inside the core.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies who is responsible for fixing an error.
type Kind int

const (
	// KindConfig marks an error the caller can fix by changing its input.
	KindConfig Kind = iota + 1
	// KindInvariant marks a broken internal guarantee (a bug in the core).
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "CONFIG"
	case KindInvariant:
		return "INVARIANT"
	default:
		return "UNKNOWN"
	}
}

// Code is a machine-readable error code.
type Code string

const (
	// Configuration errors
	CodeBoardZeroArea       Code = "BOARD_ZERO_AREA"
	CodeDensityOutOfRange   Code = "DENSITY_OUT_OF_RANGE"
	CodeNegativePenalty     Code = "NEGATIVE_PENALTY"
	CodeNegativeBridges     Code = "NEGATIVE_BRIDGES"
	CodeUnitOverflow        Code = "UNIT_OVERFLOW"
	CodeUnknownUnitType     Code = "UNKNOWN_UNIT_TYPE"
	CodeInvalidUnitStat     Code = "INVALID_UNIT_STAT"
	CodeInvalidMoveBudget   Code = "INVALID_MOVE_BUDGET"
	CodeUnknownCard         Code = "UNKNOWN_CARD"
	CodeInvalidLoggingLevel Code = "INVALID_LOGGING_LEVEL"
	CodeConfigRead          Code = "CONFIG_READ"
	CodeInvalidState        Code = "INVALID_STATE"

	// Invariant errors
	CodeReplayMismatch  Code = "REPLAY_MISMATCH"
	CodeReplayNoStart   Code = "REPLAY_NO_START"
	CodeCellOccupied    Code = "CELL_OCCUPIED"
	CodeChecksumEncode  Code = "CHECKSUM_ENCODE"
	CodeWorkerTransport Code = "WORKER_TRANSPORT"
)

// Error is a structured error carrying a kind and a code.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind and code so sentinel comparisons work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}

// Config creates a configuration error.
func Config(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Invariant creates an invariant-violation error.
func Invariant(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}

// IsInvariant reports whether err is an invariant violation.
func IsInvariant(err error) bool {
	return KindOf(err) == KindInvariant
}
