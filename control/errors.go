package control

import "errors"

// Sentinel errors returned by the command front-end and the write queue
// (spec.md §7). The decoder and response engine never return an error —
// a missing reply is signalled by a boolean, not an error, to keep the
// hot path free of allocation and wrapping.
var (
	// ErrInvalidArg signals an unknown command type or an out-of-range value.
	ErrInvalidArg = errors.New("control: invalid argument")
	// ErrNoMem signals a full write queue.
	ErrNoMem = errors.New("control: write queue full")
)
