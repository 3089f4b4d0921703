package funds

import "sync"

// MemoryBank keeps account balances in process. It stands in for the real
// value-transfer system in tests and local runs.
type MemoryBank interface {
	Transferer

	Credit(account string, amount uint64)
	BalanceOf(account string) uint64
}

type memoryBank struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewMemoryBank() MemoryBank {
	return &memoryBank{balances: make(map[string]uint64)}
}

func (b *memoryBank) Send(destination string, amount uint64) error {
	b.Credit(destination, amount)

	return nil
}

func (b *memoryBank) Credit(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[account] += amount
}

func (b *memoryBank) BalanceOf(account string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balances[account]
}
