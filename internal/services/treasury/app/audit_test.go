package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/leaguepool/internal/services/treasury/storage"
	"github.com/louisbranch/leaguepool/internal/services/treasury/storage/sqlite"
)

func auditSnapshot(id string, cash, vaultValue, claimable uint64) storage.LeagueSnapshot {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	snapshot := storage.LeagueSnapshot{
		League: storage.LeagueRecord{
			ID:             id,
			Name:           "League " + id,
			Commissioner:   "alice",
			CashBalance:    cash,
			TotalClaimable: claimable,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		Seasons: []storage.SeasonRecord{{LeagueID: id, Index: 0, Dues: 100}},
	}
	if vaultValue > 0 {
		snapshot.Positions = []storage.PositionRecord{
			{LeagueID: id, VaultID: "vault-1", Units: vaultValue, AssetValue: vaultValue},
		}
	}
	return snapshot
}

func TestAuditSolvencyFlagsShortfall(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "treasury.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	// Vault positions count toward solvency; league-b is short even so.
	if err := store.SaveSnapshot(ctx, auditSnapshot("league-a", 50, 100, 120)); err != nil {
		t.Fatalf("save league-a: %v", err)
	}
	if err := store.SaveSnapshot(ctx, auditSnapshot("league-b", 10, 20, 100)); err != nil {
		t.Fatalf("save league-b: %v", err)
	}

	results, err := AuditSolvency(ctx, store)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byID := map[string]AuditResult{}
	for _, result := range results {
		byID[result.LeagueID] = result
	}
	if !byID["league-a"].Solvent {
		t.Fatalf("expected league-a solvent, got %+v", byID["league-a"])
	}
	if byID["league-b"].Solvent {
		t.Fatalf("expected league-b insolvent, got %+v", byID["league-b"])
	}
	if byID["league-b"].VaultValue != 20 {
		t.Fatalf("expected vault value 20, got %+v", byID["league-b"])
	}
}

func TestWriteAuditReport(t *testing.T) {
	results := []AuditResult{
		{LeagueID: "league-a", Name: "Alpha", CashBalance: 100, VaultValue: 50, TotalClaimable: 80, Solvent: true},
		{LeagueID: "league-b", Name: "Beta", CashBalance: 10, VaultValue: 0, TotalClaimable: 100, Solvent: false, Closed: true},
	}

	var sb strings.Builder
	if err := WriteAuditReport(&sb, results); err != nil {
		t.Fatalf("write report: %v", err)
	}

	report := sb.String()
	if !strings.Contains(report, `league-a "Alpha"`) || !strings.Contains(report, "solvent") {
		t.Fatalf("unexpected report: %s", report)
	}
	if !strings.Contains(report, "INSOLVENT (closed)") {
		t.Fatalf("expected insolvency flagged: %s", report)
	}
}
