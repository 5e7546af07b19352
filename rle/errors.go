package rle

import "github.com/pkg/errors"

// ErrPatternParse is wrapped with context and returned by Decode,
// ParsePatternFile, and ParseHeaderLine on any malformed input. The
// grid may be partially written by the time Decode returns it: callers
// that need an all-or-nothing write should decode into a scratch grid
// first.
var ErrPatternParse = errors.New("rle: malformed pattern")

// maxRunLength bounds a run-length digit prefix. The original format
// has no in-band terminator for a number besides the first non-digit,
// so an unbounded prefix is an easy way to wedge a decoder on a
// malicious or corrupted datagram.
const maxRunLength = 50000

// noOpChar skips cells without writing them; used by diff patterns to
// mean "unchanged since the last generation the peer has".
const noOpChar = '"'
