package league

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/certificate"
)

// AllocateReward credits a pending reward to a currently active team.
// Rewards may only be backed by liquid cash: cash currently placed in vault
// positions never backs a reward.
func (l *League) AllocateReward(caller, team, label string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}
	if amount == 0 {
		return apperrors.New(apperrors.CodeZeroAmount, "reward amount must be greater than zero")
	}
	if !l.isActiveThisSeason(team) {
		return apperrors.New(apperrors.CodeTeamNotActiveThisSeason, "team is not active in the current season")
	}
	if amount > l.liquidCash() {
		return apperrors.New(apperrors.CodeInsufficientCash, "league cash cannot back this reward")
	}

	l.pendingRewards[team] = append(l.pendingRewards[team], RewardEntry{
		Label:  strings.TrimSpace(label),
		Amount: amount,
	})
	l.totalClaimable += amount
	return nil
}

// ClaimReward pays out the caller's most recently allocated pending reward:
// the entry is consumed last-in-first-out, one entry per call. A reward
// certificate is minted before the cash payout; if either external call
// fails, the league is left exactly as it was.
func (l *League) ClaimReward(ctx context.Context, caller, imageRef string) (certificate.Certificate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return certificate.Certificate{}, errInactive()
	}
	entries := l.pendingRewards[caller]
	if len(entries) == 0 {
		return certificate.Certificate{}, apperrors.New(apperrors.CodeNoRewardsPending,
			"no rewards are pending for this account")
	}
	entry := entries[len(entries)-1]

	if err := l.assets.Transfer(l.account, caller, entry.Amount); err != nil {
		return certificate.Certificate{}, err
	}

	cert, err := l.issuer.Mint(ctx, l.account, certificate.MintRequest{
		To:         caller,
		LeagueName: l.name,
		TeamName:   l.teamNames[caller],
		Label:      entry.Label,
		Amount:     entry.Amount,
		ImageRef:   imageRef,
	})
	if err != nil {
		// Undo the payout so the caller observes pre-call state.
		_ = l.assets.Transfer(caller, l.account, entry.Amount)
		return certificate.Certificate{}, err
	}

	l.pendingRewards[caller] = entries[:len(entries)-1]
	l.totalClaimable -= entry.Amount
	return cert, nil
}
