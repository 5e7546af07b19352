package wire

import "net"

// Endpoint is an opaque identifier for a remote peer, conceptually an
// IP address plus a UDP port. Endpoints are comparable by value so
// they can be used directly as map keys.
type Endpoint struct {
	addr string
}

// NewEndpoint builds an Endpoint from a resolved network address.
func NewEndpoint(addr net.Addr) Endpoint {
	return Endpoint{addr: addr.String()}
}

// EndpointFromString builds an Endpoint directly from its string form,
// for tests and for CLI-supplied addresses that haven't been dialed
// yet.
func EndpointFromString(s string) Endpoint {
	return Endpoint{addr: s}
}

// String returns the "host:port" representation of the endpoint.
func (e Endpoint) String() string {
	return e.addr
}

// IsZero reports whether e is the zero-value Endpoint.
func (e Endpoint) IsZero() bool {
	return e.addr == ""
}
