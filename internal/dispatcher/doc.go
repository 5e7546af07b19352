// Package dispatcher runs the single-threaded event loop that owns
// the datagram socket, the Sessions for every peer it has heard from,
// and the periodic tick that drives keepalives and retransmit
// sweeps. It is the only package that touches net.PacketConn.
//
// A Dispatcher is driven from two directions: a Command channel from
// above (the application asking it to connect, send a chat message,
// join a room, ...) and the socket from below. Results flow back up
// as Notifications. Everything in between -- sequence assignment,
// duplicate suppression, retransmission -- happens on the single Run
// goroutine; nothing here is safe to call concurrently with Run.
package dispatcher
