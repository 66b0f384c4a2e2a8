package app

import (
	"context"
	"fmt"
	"io"

	"github.com/louisbranch/leaguepool/internal/services/treasury/storage"
)

// AuditResult reports one league's solvency from its stored snapshot.
type AuditResult struct {
	LeagueID       string
	Name           string
	Closed         bool
	CashBalance    uint64
	VaultValue     uint64
	TotalClaimable uint64
	Solvent        bool
}

// AuditSolvency checks every stored league snapshot against the solvency
// invariant: cash plus vault position value must cover all pending
// rewards.
func AuditSolvency(ctx context.Context, store storage.LeagueStore) ([]AuditResult, error) {
	leagues, err := store.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	results := make([]AuditResult, 0, len(leagues))
	for _, record := range leagues {
		snapshot, err := store.GetSnapshot(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", record.ID, err)
		}

		var vaultValue uint64
		for _, position := range snapshot.Positions {
			vaultValue += position.AssetValue
		}

		results = append(results, AuditResult{
			LeagueID:       record.ID,
			Name:           record.Name,
			Closed:         record.Closed,
			CashBalance:    record.CashBalance,
			VaultValue:     vaultValue,
			TotalClaimable: record.TotalClaimable,
			Solvent:        record.CashBalance+vaultValue >= record.TotalClaimable,
		})
	}
	return results, nil
}

// WriteAuditReport renders audit results, one league per line.
func WriteAuditReport(w io.Writer, results []AuditResult) error {
	for _, result := range results {
		state := "solvent"
		if !result.Solvent {
			state = "INSOLVENT"
		}
		if result.Closed {
			state += " (closed)"
		}
		if _, err := fmt.Fprintf(w, "%s %q cash=%d vault=%d claimable=%d %s\n",
			result.LeagueID, result.Name, result.CashBalance, result.VaultValue,
			result.TotalClaimable, state); err != nil {
			return err
		}
	}
	return nil
}
