// Package netwayste is the public facade over the protocol core: it
// owns the UDP socket, wires it to an internal/dispatcher.Dispatcher,
// and exposes the Command/Notification API as Go channels behind
// Client and Server types.
//
// The protocol core deliberately knows nothing about how a universe
// is simulated or rendered; an embedder supplies that through the
// GridSource, EventSink, and Clock collaborator interfaces declared
// in this package.
package netwayste
