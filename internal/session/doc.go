// Package session tracks the per-peer protocol state machine shared by
// client and server: sequence assignment, the inbound delivery
// watermark, cookie/room identity, chat-sequence deduplication, and
// keepalive/timeout bookkeeping.
//
// A Session does not itself read or write sockets, and although it
// records its Role, none of its bookkeeping depends on whether it is
// acting as a client talking to one server or a server talking to one
// client -- that asymmetry lives entirely in
// the RequestAction/ResponseCode payloads the Dispatcher exchanges
// through it. This mirrors the reference implementation's
// ClientNetState, generalized so the same bookkeeping serves both
// ends of the connection instead of being duplicated.
package session
