package memworld

import (
	"slices"
	"sync"
	"time"

	"logistics/internal/core/ports"

	"github.com/shopspring/decimal"
)

var _ ports.EconomyLedger = (*Economy)(nil)

// Entry is one booking on the balance. Charges are negative.
type Entry struct {
	Amount decimal.Decimal
	Reason string
	At     time.Time
}

// Economy is the player's balance with a booking journal. The balance may go
// negative.
type Economy struct {
	mu      sync.Mutex
	balance decimal.Decimal
	entries []Entry
	now     func() time.Time
}

func NewEconomy(opening decimal.Decimal) *Economy {
	return &Economy{balance: opening, now: time.Now}
}

func (e *Economy) Charge(amount decimal.Decimal, reason string) {
	e.book(amount.Abs().Neg(), reason)
}

func (e *Economy) Credit(amount decimal.Decimal, reason string) {
	e.book(amount.Abs(), reason)
}

func (e *Economy) Balance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// Entries returns the journal, oldest first.
func (e *Economy) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.entries)
}

func (e *Economy) book(amount decimal.Decimal, reason string) {
	if amount.IsZero() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.balance = e.balance.Add(amount)
	e.entries = append(e.entries, Entry{Amount: amount, Reason: reason, At: e.now()})
}
