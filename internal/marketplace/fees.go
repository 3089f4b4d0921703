package marketplace

import "sync"

// FeeLedger holds the listing fee, the protocol take rate and the running
// total owed to the operator. The accumulated balance only moves up through
// Accrue and back to zero through Drain; Deduct exists for the buy path to
// unwind an accrual when a sale aborts after its effects were applied.
type FeeLedger interface {
	ListingFee() uint64
	SetListingFee(fee uint64)
	ProtocolFeeBps() uint64
	Accumulated() uint64
	Accrue(amount uint64)
	Deduct(amount uint64)
	Drain() uint64
	Split(amount uint64) (protocolCut uint64, sellerCut uint64)
}

type feeLedger struct {
	mu             sync.Mutex
	listingFee     uint64
	protocolFeeBps uint64
	accumulated    uint64
}

func NewFeeLedger(listingFee, protocolFeeBps uint64) FeeLedger {
	return &feeLedger{listingFee: listingFee, protocolFeeBps: protocolFeeBps}
}

func (f *feeLedger) ListingFee() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.listingFee
}

func (f *feeLedger) SetListingFee(fee uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listingFee = fee
}

func (f *feeLedger) ProtocolFeeBps() uint64 {
	return f.protocolFeeBps
}

func (f *feeLedger) Accumulated() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.accumulated
}

func (f *feeLedger) Accrue(amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accumulated += amount
}

func (f *feeLedger) Deduct(amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accumulated -= amount
}

// Drain zeroes the accumulated balance and returns what it held. The caller
// must re-credit via Accrue if the payout that follows is rejected.
func (f *feeLedger) Drain() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	amount := f.accumulated
	f.accumulated = 0

	return amount
}

// Split divides a sale price into the protocol cut and the seller cut using
// floor division; the rounding remainder always stays with the seller. The
// cut is computed in two terms so the intermediate products cannot overflow
// for any uint64 amount at rates up to 10000 bps.
func (f *feeLedger) Split(amount uint64) (uint64, uint64) {
	protocolCut := amount/10000*f.protocolFeeBps + amount%10000*f.protocolFeeBps/10000

	return protocolCut, amount - protocolCut
}
