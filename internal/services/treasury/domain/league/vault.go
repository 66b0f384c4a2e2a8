package league

import (
	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

// DepositToVault places league cash into a position with the given
// accountant. Cash backing pending rewards can never be placed at risk.
func (l *League) DepositToVault(caller string, acct Accountant, amount uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, errInactive()
	}
	if err := l.requireTreasurer(caller); err != nil {
		return 0, err
	}
	if !l.directory.IsApprovedVault(acct.VaultID()) {
		return 0, apperrors.WithMetadata(apperrors.CodeUnknownVault,
			"vault is not approved by the registry",
			map[string]string{"vault": acct.VaultID()})
	}
	if amount > l.liquidCash() {
		return 0, apperrors.New(apperrors.CodeInsufficientCash,
			"deposit would put reward-backing cash at risk")
	}

	units, err := acct.Deposit(l.account, amount, l.account)
	if err != nil {
		return 0, err
	}

	l.positions[acct.VaultID()] = acct
	return units, nil
}

// WithdrawFromVault redeems position units with the given accountant back
// into league cash. The position is dropped from the active set when its
// unit balance returns to zero.
func (l *League) WithdrawFromVault(caller string, acct Accountant, units uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, errInactive()
	}
	if err := l.requireTreasurer(caller); err != nil {
		return 0, err
	}
	if units > acct.UnitsOf(l.account) {
		return 0, apperrors.New(apperrors.CodeInsufficientPosition,
			"withdrawal exceeds the league's position unit balance")
	}

	assets, err := acct.Redeem(l.account, units, l.account, l.account)
	if err != nil {
		return 0, err
	}

	if acct.UnitsOf(l.account) == 0 {
		delete(l.positions, acct.VaultID())
	}
	return assets, nil
}

// ActiveVaultPositions returns the vault ids of currently open positions.
func (l *League) ActiveVaultPositions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.positions))
	for vault := range l.positions {
		out = append(out, vault)
	}
	return out
}

// TotalVaultBalance returns the asset value of all open positions at the
// external vaults' current prices.
func (l *League) TotalVaultBalance() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalVaultBalance()
}

func (l *League) totalVaultBalance() uint64 {
	var total uint64
	for _, acct := range l.positions {
		total += acct.ConvertToAssets(acct.UnitsOf(l.account))
	}
	return total
}

// CheckSolvency reports whether cash plus vault positions can cover all
// pending rewards.
func (l *League) CheckSolvency() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assets.BalanceOf(l.account)+l.totalVaultBalance() >= l.totalClaimable
}

// CloseLeague withdraws every open vault position to cash, pays the entire
// remaining cash to the caller, and deregisters the league. The league is
// permanently inactive afterwards. A failed redemption abandons the close
// with every position left open.
func (l *League) CloseLeague(caller string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}

	type redeemedPosition struct {
		vault  string
		acct   Accountant
		assets uint64
	}

	redeemed := make([]redeemedPosition, 0, len(l.positions))
	for vault, acct := range l.positions {
		units := acct.UnitsOf(l.account)
		if units == 0 {
			delete(l.positions, vault)
			continue
		}
		assets, err := acct.Redeem(l.account, units, l.account, l.account)
		if err != nil {
			// Re-open the positions already swept so a failed close moves
			// no funds. If a re-deposit also fails, its redeemed value
			// stays in league custody.
			for _, p := range redeemed {
				_, _ = p.acct.Deposit(l.account, p.assets, l.account)
			}
			return err
		}
		redeemed = append(redeemed, redeemedPosition{vault: vault, acct: acct, assets: assets})
	}
	for _, p := range redeemed {
		delete(l.positions, p.vault)
	}

	if cash := l.assets.BalanceOf(l.account); cash > 0 {
		if err := l.assets.Transfer(l.account, caller, cash); err != nil {
			return err
		}
	}

	l.directory.Deregister(l.account)
	l.closed = true
	return nil
}
