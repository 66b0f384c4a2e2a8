// Package extvault defines the contract of the external yield-bearing vault
// the treasury places pooled cash into, plus a reference implementation used
// by tests and local runs.
//
// The external vault is an opaque counterparty: the treasury never reasons
// about its share price beyond the conversion queries it exposes.
package extvault

import (
	"sync"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
)

// Vault is the external yield vault contract.
//
// Deposit pulls assets from the owner's settlement account and mints shares
// to the owner. Redeem burns the owner's shares and pays assets to the
// receiver. Conversion queries reflect the vault's own share price and may
// move between calls.
type Vault interface {
	ID() string
	Deposit(assets uint64, owner string) (shares uint64, err error)
	Redeem(shares uint64, receiver, owner string) (assets uint64, err error)
	ConvertToShares(assets uint64) uint64
	ConvertToAssets(shares uint64) uint64
	TotalAssets() uint64
	SharesOf(owner string) uint64
}

// PooledVault is an in-memory yield vault backed by the settlement-asset
// ledger. Share price is totalAssets/totalShares; yield accrues when asset
// is minted directly to the vault's custody account, which raises the price
// without minting shares.
type PooledVault struct {
	mu          sync.Mutex
	id          string
	account     string
	ledger      *asset.Bank
	shares      map[string]uint64
	totalShares uint64
}

// NewPooledVault creates a vault with the given identity whose custody
// account lives in the provided ledger. The vault's custody account is its
// own id.
func NewPooledVault(id string, ledger *asset.Bank) *PooledVault {
	return &PooledVault{
		id:      id,
		account: id,
		ledger:  ledger,
		shares:  map[string]uint64{},
	}
}

// ID returns the vault identity used for registry approval checks.
func (v *PooledVault) ID() string { return v.id }

// Deposit pulls assets from owner and mints shares at the current price.
func (v *PooledVault) Deposit(assets uint64, owner string) (uint64, error) {
	if assets == 0 {
		return 0, apperrors.New(apperrors.CodeZeroAmount, "deposit amount must be greater than zero")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	shares := v.convertToShares(assets)
	if err := v.ledger.Transfer(owner, v.account, assets); err != nil {
		return 0, err
	}
	v.shares[owner] += shares
	v.totalShares += shares
	return shares, nil
}

// Redeem burns owner's shares and pays the equivalent assets to receiver.
func (v *PooledVault) Redeem(shares uint64, receiver, owner string) (uint64, error) {
	if shares == 0 {
		return 0, apperrors.New(apperrors.CodeZeroAmount, "redeem shares must be greater than zero")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.shares[owner] < shares {
		return 0, apperrors.New(apperrors.CodeInsufficientPosition, "owner share balance is too small")
	}
	assets := v.convertToAssets(shares)
	if err := v.ledger.Transfer(v.account, receiver, assets); err != nil {
		return 0, err
	}
	v.shares[owner] -= shares
	v.totalShares -= shares
	return assets, nil
}

// ConvertToShares returns how many shares a deposit of assets would mint at
// the current price.
func (v *PooledVault) ConvertToShares(assets uint64) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.convertToShares(assets)
}

// ConvertToAssets returns how much asset a redemption of shares would pay at
// the current price.
func (v *PooledVault) ConvertToAssets(shares uint64) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.convertToAssets(shares)
}

// TotalAssets returns the asset balance held by the vault's custody account.
func (v *PooledVault) TotalAssets() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalAssets()
}

// SharesOf returns the share balance of an owner.
func (v *PooledVault) SharesOf(owner string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shares[owner]
}

func (v *PooledVault) totalAssets() uint64 {
	return v.ledger.BalanceOf(v.account)
}

func (v *PooledVault) convertToShares(assets uint64) uint64 {
	total := v.totalAssets()
	if v.totalShares == 0 || total == 0 {
		return assets
	}
	return assets * v.totalShares / total
}

func (v *PooledVault) convertToAssets(shares uint64) uint64 {
	if v.totalShares == 0 {
		return shares
	}
	return shares * v.totalAssets() / v.totalShares
}
