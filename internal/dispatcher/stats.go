package dispatcher

// Stats are the Dispatcher's running counters, carried forward from
// the reference implementation's NetworkStatistics so the embedding
// application can surface them (e.g. on a status line) without the
// Dispatcher depending on any particular metrics backend.
type Stats struct {
	TxPacketsSuccess uint64
	TxPacketsFailed  uint64
	QueueCapExceeded uint64
}
