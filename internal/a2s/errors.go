package a2s

import "errors"

// Sentinel errors for malformed responses. Transport failures (timeouts,
// refusals) surface as the underlying net errors and are classified by the
// caller.
var (
	// ErrBadHeader marks a response that does not start with a recognized
	// A2S header or type byte.
	ErrBadHeader = errors.New("unrecognized response header")

	// ErrTruncated marks a response that ends before a required field.
	ErrTruncated = errors.New("truncated response")

	// ErrBadFragment marks an inconsistent split-packet sequence, such as a
	// fragment from a different request ID or an out-of-range index.
	ErrBadFragment = errors.New("inconsistent split packet")
)
