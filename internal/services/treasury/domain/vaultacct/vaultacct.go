// Package vaultacct tracks pooled positions in one external yield vault on
// behalf of league ledgers.
//
// The accountant is a shared multi-tenant wrapper: many leagues hold
// positions through one accountant per external vault. It issues its own
// position units one-for-one against the external shares it receives, so
// the sum of all issued units always equals the external share balance the
// accountant holds.
package vaultacct

import (
	"sync"
	"sync/atomic"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
	"github.com/louisbranch/leaguepool/internal/services/treasury/extvault"
)

// Recognizer reports whether an account is a recognized league ledger.
type Recognizer interface {
	IsRecognizedLedger(account string) bool
}

// Accountant wraps one external yield vault and issues position units to
// recognized league ledgers.
type Accountant struct {
	account    string
	vault      extvault.Vault
	ledger     asset.Ledger
	recognizer Recognizer

	// inCall guards deposit/redeem: moving external shares may hand control
	// to the vault, and the vault must not be able to re-enter this
	// accountant's bookkeeping before the outer call finishes.
	inCall atomic.Bool

	mu         sync.Mutex
	units      map[string]uint64
	totalUnits uint64
}

// New creates an accountant over the given external vault. The account is
// the accountant's own custody account in the settlement-asset ledger.
func New(account string, vault extvault.Vault, ledger asset.Ledger, recognizer Recognizer) *Accountant {
	return &Accountant{
		account:    account,
		vault:      vault,
		ledger:     ledger,
		recognizer: recognizer,
		units:      map[string]uint64{},
	}
}

// Account returns the accountant's custody account id.
func (a *Accountant) Account() string { return a.account }

// VaultID returns the identity of the wrapped external vault.
func (a *Accountant) VaultID() string { return a.vault.ID() }

// Deposit pulls amount of settlement asset from the caller, forwards it to
// the external vault, and mints position units one-for-one with the
// external shares received to onBehalfOf. Returns the units minted.
func (a *Accountant) Deposit(caller string, amount uint64, onBehalfOf string) (uint64, error) {
	if !a.inCall.CompareAndSwap(false, true) {
		return 0, apperrors.New(apperrors.CodeReentrantCall, "accountant call already in progress")
	}
	defer a.inCall.Store(false)

	if !a.recognizer.IsRecognizedLedger(caller) {
		return 0, apperrors.WithMetadata(apperrors.CodeUnknownLedger,
			"caller is not a recognized league ledger",
			map[string]string{"caller": caller})
	}
	if amount == 0 {
		return 0, apperrors.New(apperrors.CodeZeroAmount, "deposit amount must be greater than zero")
	}

	if err := a.ledger.Transfer(caller, a.account, amount); err != nil {
		return 0, err
	}

	shares, err := a.vault.Deposit(amount, a.account)
	if err != nil {
		// Undo the pull so the caller observes pre-call state.
		_ = a.ledger.Transfer(a.account, caller, amount)
		return 0, err
	}

	a.mu.Lock()
	a.units[onBehalfOf] += shares
	a.totalUnits += shares
	a.mu.Unlock()

	return shares, nil
}

// Redeem burns units from onBehalfOf, redeems the equivalent external
// shares, and pays the resulting settlement asset to receiver. Returns the
// asset amount received.
func (a *Accountant) Redeem(caller string, units uint64, receiver, onBehalfOf string) (uint64, error) {
	if !a.inCall.CompareAndSwap(false, true) {
		return 0, apperrors.New(apperrors.CodeReentrantCall, "accountant call already in progress")
	}
	defer a.inCall.Store(false)

	if !a.recognizer.IsRecognizedLedger(caller) {
		return 0, apperrors.WithMetadata(apperrors.CodeUnknownLedger,
			"caller is not a recognized league ledger",
			map[string]string{"caller": caller})
	}
	if units == 0 {
		return 0, apperrors.New(apperrors.CodeZeroAmount, "redeem units must be greater than zero")
	}
	if a.vault.SharesOf(a.account) == 0 {
		return 0, apperrors.New(apperrors.CodeNoShares, "accountant holds no external vault shares")
	}

	a.mu.Lock()
	owned := a.units[onBehalfOf]
	a.mu.Unlock()
	if owned < units {
		return 0, apperrors.WithMetadata(apperrors.CodeInsufficientPosition,
			"position unit balance is too small",
			map[string]string{"owner": onBehalfOf})
	}

	assets, err := a.vault.Redeem(units, receiver, a.account)
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	a.units[onBehalfOf] -= units
	a.totalUnits -= units
	a.mu.Unlock()

	return assets, nil
}

// MintUnits is the share-denominated deposit form. The accountant only
// supports asset-denominated deposits.
func (a *Accountant) MintUnits(caller string, units uint64, onBehalfOf string) (uint64, error) {
	return 0, apperrors.New(apperrors.CodeNotImplemented, "share-denominated deposits are not supported")
}

// WithdrawAssets is the fixed-asset-denominated redemption form. The
// accountant only supports unit-denominated redemptions.
func (a *Accountant) WithdrawAssets(caller string, amount uint64, receiver, onBehalfOf string) (uint64, error) {
	return 0, apperrors.New(apperrors.CodeNotImplemented, "asset-denominated withdrawals are not supported")
}

// UnitsOf returns the position unit balance of an owner.
func (a *Accountant) UnitsOf(owner string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.units[owner]
}

// TotalUnits returns the total position units issued.
func (a *Accountant) TotalUnits() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalUnits
}

// TotalAssets returns the asset value of all external shares held,
// at the external vault's current price.
func (a *Accountant) TotalAssets() uint64 {
	return a.vault.ConvertToAssets(a.vault.SharesOf(a.account))
}

// ConvertToShares delegates to the external vault's pricing. The result is
// never cached: the external share price can move between calls.
func (a *Accountant) ConvertToShares(assets uint64) uint64 {
	return a.vault.ConvertToShares(assets)
}

// ConvertToAssets delegates to the external vault's pricing.
func (a *Accountant) ConvertToAssets(units uint64) uint64 {
	return a.vault.ConvertToAssets(units)
}
