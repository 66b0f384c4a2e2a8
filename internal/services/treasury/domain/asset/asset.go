// Package asset models the single fungible settlement asset all treasury
// flows settle in. Balances live in an account ledger keyed by opaque
// account identifiers; dues, fees, vault flows, refunds, and reward payouts
// are all transfers between ledger accounts.
package asset

import (
	"sync"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

// Ledger moves the settlement asset between accounts.
type Ledger interface {
	// Transfer debits amount from one account and credits it to another.
	Transfer(from, to string, amount uint64) error
	// BalanceOf returns the current balance of an account.
	BalanceOf(account string) uint64
}

// Bank is an in-memory settlement-asset ledger.
//
// Supply is conserved across transfers: the sum of all balances only changes
// through Mint.
type Bank struct {
	mu       sync.Mutex
	balances map[string]uint64
	supply   uint64
}

// NewBank creates an empty settlement-asset ledger.
func NewBank() *Bank {
	return &Bank{balances: map[string]uint64{}}
}

// Mint credits newly issued asset to an account.
func (b *Bank) Mint(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
	b.supply += amount
}

// Transfer debits amount from one account and credits it to another.
// The transfer is atomic: either both balances change or neither does.
func (b *Bank) Transfer(from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientBalance,
			"account balance cannot cover transfer",
			map[string]string{"account": from})
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

// BalanceOf returns the current balance of an account.
func (b *Bank) BalanceOf(account string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// TotalSupply returns the sum of all balances.
func (b *Bank) TotalSupply() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supply
}
