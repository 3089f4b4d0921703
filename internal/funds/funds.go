package funds

// Transferer pushes native value to a destination account and reports
// success or failure. It is an untrusted external call: it may fail, it may
// attempt to call back into the marketplace, and it is never retried. A
// destination that rejects value blocks its own payout; there is no credit
// ledger fallback.
type Transferer interface {
	Send(destination string, amount uint64) error
}
