package wire

import "github.com/pkg/errors"

// ErrDecodeFailure names a malformed frame. Nothing in this package
// returns it: Decode reports a malformed datagram as ok=false (a
// stateless drop), and the reader helpers report failure as a bool.
var ErrDecodeFailure = errors.New("wire: malformed frame")

// ErrStringTooLarge is returned by Encode if a string field would
// overflow the uint64 length prefix -- effectively unreachable on any
// real system, but Encode is documented as infallible "unless a
// string exceeds 2^64-1 bytes", so the case is modeled rather than
// panicking.
var ErrStringTooLarge = errors.New("wire: string exceeds maximum encodable length")
