package dispatcher

import (
	"crypto/rand"
	"encoding/hex"
)

// newCookie mints an opaque per-session token for a successful
// Connect.
func newCookie() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is a fatal platform problem, not a
		// recoverable protocol error; panicking matches the standard
		// library's own behavior on a broken entropy source.
		panic("dispatcher: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf[:])
}
