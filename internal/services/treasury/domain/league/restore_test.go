package league

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
)

func TestRestoreRebuildsLeagueFromSnapshot(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := f.league.AddTreasurer("alice", "bob"); err != nil {
		t.Fatalf("add treasurer: %v", err)
	}
	if err := f.league.AllocateReward("alice", "bob", "first", 30); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := f.league.AllocateReward("alice", "bob", "second", 40); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	snap := f.league.Snapshot()

	// A fresh bank mirrors a process restart: balances live only in memory.
	bank := asset.NewBank()
	bank.Mint(snap.ID, snap.CashBalance)
	directory := &stubDirectory{approved: map[string]bool{}, beneficiary: "registry-fees"}
	issuer := &stubIssuer{}

	restored, err := Restore(Config{
		Assets:    bank,
		Directory: directory,
		Issuer:    issuer,
		Clock:     func() time.Time { return fixedTime },
	}, snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.ID() != snap.ID || restored.Account() != snap.ID {
		t.Fatalf("unexpected identity %q/%q", restored.ID(), restored.Account())
	}
	if restored.Name() != "Premier Pool" {
		t.Fatalf("expected name preserved, got %q", restored.Name())
	}
	if !restored.CreatedAt().Equal(fixedTime) {
		t.Fatalf("expected founding time preserved, got %v", restored.CreatedAt())
	}
	if !restored.IsCommissioner("alice") {
		t.Fatal("expected commissioner restored")
	}
	if !restored.IsTreasurer("bob") {
		t.Fatal("expected treasurer grant restored")
	}
	if got := restored.TotalClaimableRewards(); got != 70 {
		t.Fatalf("expected claimable 70, got %d", got)
	}
	entries := restored.PendingRewards("bob")
	if len(entries) != 2 || entries[0].Label != "first" || entries[1].Label != "second" {
		t.Fatalf("expected pending list in allocation order, got %v", entries)
	}
	if name, ok := restored.TeamName("bob"); !ok || name != "Falcons" {
		t.Fatalf("expected team name restored, got %q", name)
	}
	season, dues := restored.CurrentSeason()
	if season != 0 || dues != 100 {
		t.Fatalf("expected season 0 with dues 100, got %d/%d", season, dues)
	}
	if got := restored.ActiveTeams(); len(got) != 2 {
		t.Fatalf("expected both teams active, got %v", got)
	}

	// Write-once team naming survives the rebuild.
	bank.Mint("carol", 500)
	if err := restored.JoinSeason("carol", "Falcons"); apperrors.GetCode(err) != apperrors.CodeTeamNameMismatch {
		t.Fatalf("expected name mismatch, got %v", err)
	}

	// The restored ledger stays operable end to end.
	if _, err := restored.ClaimReward(context.Background(), "bob", ""); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got := bank.BalanceOf("bob"); got != 540 {
		t.Fatalf("expected bob paid 40, got %d", got)
	}
}

func TestRestoreValidation(t *testing.T) {
	bank := asset.NewBank()
	directory := &stubDirectory{}
	base := Snapshot{
		ID:           "league-1",
		Name:         "Premier Pool",
		Commissioner: "alice",
		Seasons:      []SeasonSnapshot{{Index: 0, Dues: 100}},
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		code   apperrors.Code
	}{
		{name: "missing id", mutate: func(s *Snapshot) { s.ID = " " }, code: apperrors.CodeNotFound},
		{name: "missing name", mutate: func(s *Snapshot) { s.Name = "" }, code: apperrors.CodeLeagueNameEmpty},
		{name: "missing commissioner", mutate: func(s *Snapshot) { s.Commissioner = "" }, code: apperrors.CodeCommissionerEmpty},
		{name: "no seasons", mutate: func(s *Snapshot) { s.Seasons = nil }, code: apperrors.CodeNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := base
			tc.mutate(&snap)
			_, err := Restore(Config{Assets: bank, Directory: directory}, snap)
			if apperrors.GetCode(err) != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}
