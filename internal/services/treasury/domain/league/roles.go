package league

import (
	"strings"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

// Role gating uses an explicit table: exactly one commissioner at a time,
// any number of treasurers. The commissioner is granted treasurer at
// founding, but losing the commissioner role does not revoke treasurer.

// SetCommissioner transfers the commissioner role from the caller to the
// new holder atomically.
func (l *League) SetCommissioner(caller, next string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}
	next = strings.TrimSpace(next)
	if next == "" {
		return apperrors.New(apperrors.CodeCommissionerEmpty, "commissioner account is required")
	}
	l.commissioner = next
	return nil
}

// AddTreasurer grants the treasurer role.
func (l *League) AddTreasurer(caller, account string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}
	l.treasurers[account] = true
	return nil
}

// RemoveTreasurer revokes the treasurer role.
func (l *League) RemoveTreasurer(caller, account string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}
	delete(l.treasurers, account)
	return nil
}

// Commissioner returns the current commissioner.
func (l *League) Commissioner() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commissioner
}

// IsCommissioner reports whether the account holds the commissioner role.
func (l *League) IsCommissioner(account string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commissioner == account
}

// IsTreasurer reports whether the account holds the treasurer role.
func (l *League) IsTreasurer(account string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.treasurers[account]
}
