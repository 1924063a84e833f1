// Package codes provides the canonical DNS code tables (opcodes, RCODEs,
// classes, algorithms, digest types) and the library-wide error taxonomy.
package codes

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the categories the library surfaces
// to callers. Every error the library returns carries exactly one Kind.
type Kind int

const (
	// Configuration covers missing nameservers, bad addresses, conflicting options.
	Configuration Kind = iota
	// PacketMalformed covers truncated buffers, bad label lengths, pointer loops.
	PacketMalformed
	// Network covers connect refused, timeout, unexpected close, short reads.
	Network
	// ResponseInvalid covers ID mismatch, QR=0, question mismatch, non-NOERROR RCODE.
	ResponseInvalid
	// Authentication covers TSIG MAC mismatch, time-out-of-window, bad signatures.
	Authentication
	// KeyMaterial covers key file not found, syntax errors, algorithm mismatches.
	KeyMaterial
	// Resource covers unavailable crypto backends and other resource failures.
	Resource
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case PacketMalformed:
		return "packet-malformed"
	case Network:
		return "network"
	case ResponseInvalid:
		return "response-invalid"
	case Authentication:
		return "authentication"
	case KeyMaterial:
		return "key-material"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is the single error value the library returns to callers, per
// spec §7: a kind plus a message, wrapping an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Rcode   int // valid when Kind == ResponseInvalid and the cause was a non-NOERROR RCODE
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, codes.Of(codes.Configuration)) style matching against a
// bare Kind wrapped in a sentinel via Of.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf builds an *Error of the given kind, formatting message like fmt.Sprintf.
// The last error-typed argument, wherever it appears in args, is also captured as
// Cause via %w-style wrapping.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	for _, a := range args {
		if err, ok := a.(error); ok {
			e.Cause = err
		}
	}
	return e
}

// Wrap annotates an existing error with a Kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Of returns a sentinel *Error usable with errors.Is to test only the Kind,
// e.g. errors.Is(err, codes.Of(codes.Network)).
func Of(kind Kind) *Error {
	return &Error{Kind: kind, Message: "sentinel"}
}

// RcodeError converts a non-NOERROR RCODE into a ResponseInvalid error
// carrying the numeric code, per spec §7: "RCODE values other than NOERROR are
// not retries; they complete the request and are returned as the final error."
func RcodeError(rcode int) *Error {
	return &Error{
		Kind:    ResponseInvalid,
		Message: fmt.Sprintf("response RCODE %s", RcodeToString(rcode)),
		Rcode:   rcode,
	}
}
