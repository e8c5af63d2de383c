// Package mpc defines the error taxonomy and shared constants of the
// secret-sharing protocols.
package mpc

import (
	"errors"
	"fmt"
	"strings"
)

// Kind partitions every failure of the sharing core into one of five
// inspectable categories. Callers and tests assert on the kind, not on
// the message.
type Kind uint8

const (
	// Config denotes an invalid threshold/party-count combination or an
	// unsupported scheme pair, detected before any network I/O.
	Config Kind = iota
	// Parse denotes a malformed field-element literal or share file.
	Parse
	// Merge denotes a duplicate shared key, a conflicting public value or
	// an insufficient number of inputs to merge.
	Merge
	// Protocol denotes a failure of an in-flight multi-party operation:
	// insufficient shares, randomness-queue exhaustion or a malformed
	// peer message.
	Protocol
	// Network denotes a connection failure, a timeout or a peer
	// disconnecting mid-round.
	Network
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Parse:
		return "parse"
	case Merge:
		return "merge"
	case Protocol:
		return "protocol"
	case Network:
		return "network"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Error is the typed error of the sharing core. It carries the failure
// Kind together with the ordered list of stages traversed while the
// error bubbled up, outermost stage first.
type Error struct {
	Kind   Kind
	Stages []string
	Err    error
}

// Errorf returns a new Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap annotates err with a stage description. If err already is an
// *Error, the stage is prepended to its stage list and the kind is kept;
// otherwise a new Error of the given kind is created.
func Wrap(kind Kind, err error, stage string) *Error {
	var mpcErr *Error
	if errors.As(err, &mpcErr) {
		return &Error{
			Kind:   mpcErr.Kind,
			Stages: append([]string{stage}, mpcErr.Stages...),
			Err:    err,
		}
	}
	return &Error{Kind: kind, Stages: []string{stage}, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Stages) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, strings.Join(e.Stages, ": "), baseMessage(e.Err))
}

func baseMessage(err error) string {
	var mpcErr *Error
	if errors.As(err, &mpcErr) {
		return baseMessage(mpcErr.Err)
	}
	return err.Error()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, making
// errors.Is(err, &Error{Kind: k}) usable as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Err == nil
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var mpcErr *Error
	return errors.As(err, &mpcErr) && mpcErr.Kind == kind
}
