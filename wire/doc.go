// Package wire defines the netwayste application-protocol frames and
// the bit-exact codec that turns them into UDP datagram payloads and
// back.
//
// The encoding is a fixed little-endian, length-prefixed,
// discriminant-tagged scheme: unsigned integers are little-endian;
// strings and lists are prefixed with a uint64 count; optional values
// are prefixed with a single byte (0 = absent, 1 = present); tagged
// unions are prefixed with a uint32 equal to the variant's position in
// its declaration. See Encode and Decode.
package wire
