// Package errs implements the client's error taxonomy. Every error the core
// returns to a caller carries one of these kinds so the caller can decide
// whether a retry with a fresh protocol session is sensible.
package errs

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error by the retry/abort policy it implies.
type Kind string

// Error kinds, in the policy order documented for each.
const (
	// KindInputDecode: malformed input from the host (bad UTF-8, bad JSON).
	// Surface to caller; no retry.
	KindInputDecode Kind = "input_decode"

	// KindTransport: network failure, non-2xx response, body parse failure.
	// Caller MAY retry a new protocol run with a new session id.
	KindTransport Kind = "transport"

	// KindProtocol: wire-format message missing or invalid. Fatal for the run.
	KindProtocol Kind = "protocol"

	// KindCheatingPeer: a ZK proof failed, a commitment did not open, or the
	// Q = P1*x2 invariant failed. Fatal; never reuse the session id.
	KindCheatingPeer Kind = "cheating_peer"

	// KindInsufficientFunds: UTXO set does not cover amount+fee.
	KindInsufficientFunds Kind = "insufficient_funds"

	// KindInvalidParameter: unknown coin type, malformed address, amount <= 0.
	KindInvalidParameter Kind = "invalid_parameter"

	// KindInternal: allocation failure or library panic surfaced as an error.
	KindInternal Kind = "internal"
)

// Error is the concrete error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "keygen.second"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an *Error wrapping cause, or returns nil if cause is nil. The
// cause is given a stack trace via pkg/errors if it does not already carry
// one, so logging the resulting *Error's Cause at the call site that first
// observed the failure still shows where it originated.
func Wrap(cause error, kind Kind, op, message string) *Error {
	if cause == nil {
		return nil
	}
	if _, ok := cause.(stackTracer); !ok {
		cause = pkgerrors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// stackTracer matches pkg/errors' internal interface for errors that already
// carry a captured stack, so Wrap does not pile up redundant stack frames
// when re-wrapping an already-annotated cause. An *Error does not implement
// it, so an *Error passed as cause is given a stack of its own.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as(err, &e) {
		return e.Kind == kind
	}
	return false
}

// as is a tiny errors.As shim kept local to avoid importing the stdlib
// package twice under two names in call sites that also use pkg/errors.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// CheatingPeer is a convenience constructor for the fatal ZK/commitment
// verification failure kind; the facade never swallows these.
func CheatingPeer(op, message string) *Error {
	return New(KindCheatingPeer, op, message)
}
