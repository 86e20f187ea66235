// Package errs defines the sentinel error kinds used across the
// computation and distribution engine, per the error handling design.
package errs

import "errors"

// These are the abstract error kinds of the error handling design.
// Callers test for them with errors.Is; concrete errors are built with
// fmt.Errorf("...: %w", ErrXxx) so context can be attached without losing
// the sentinel identity.
var (
	// ErrBadSelection means a bad IF, polarization or channel-range
	// selection was made against a scan or options set.
	ErrBadSelection = errors.New("bad selection")

	// ErrDecodeLength means a wire or file payload's array length
	// disagreed with the contextually expected length.
	ErrDecodeLength = errors.New("decode: length mismatch")

	// ErrDecodeValue means an unexpected type tag or value was found
	// while decoding.
	ErrDecodeValue = errors.New("decode: unexpected value")

	// ErrIO wraps socket or file I/O failures.
	ErrIO = errors.New("io error")

	// ErrNoMatch means no options set or modifier matched the given
	// scan header or MJD.
	ErrNoMatch = errors.New("no match")

	// ErrOverload means a compute request arrived while one was already
	// in flight; the request was coalesced rather than rejected.
	ErrOverload = errors.New("compute already in flight")

	// ErrShutdown means the server is in SHUTTING_DOWN and refused the
	// request.
	ErrShutdown = errors.New("server shutting down")
)
