package league

import (
	"testing"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

func TestJoinSeasonPaysDues(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)

	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if got := f.bank.BalanceOf("bob"); got != 400 {
		t.Fatalf("expected bob balance 400, got %d", got)
	}
	if got := f.league.CashBalance(); got != 200 {
		t.Fatalf("expected league custody 200, got %d", got)
	}
	if name, ok := f.league.TeamName("bob"); !ok || name != "Falcons" {
		t.Fatalf("expected team name Falcons, got %q", name)
	}
	teams := f.league.ActiveTeams()
	if len(teams) != 2 {
		t.Fatalf("expected 2 active teams, got %v", teams)
	}
}

func TestJoinSeasonRejectsDoubleJoin(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)

	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}
	err := f.league.JoinSeason("bob", "Falcons")
	if apperrors.GetCode(err) != apperrors.CodeTeamAlreadyJoined {
		t.Fatalf("expected already joined, got %v", err)
	}
	if got := f.bank.BalanceOf("bob"); got != 400 {
		t.Fatalf("expected no second dues charge, balance %d", got)
	}
}

func TestJoinSeasonTeamNameRules(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	f.bank.Mint("carol", 500)

	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// Another account cannot take a reserved name.
	err := f.league.JoinSeason("carol", "Falcons")
	if apperrors.GetCode(err) != apperrors.CodeTeamNameMismatch {
		t.Fatalf("expected name mismatch for reserved name, got %v", err)
	}

	// A returning member must reuse their reserved name.
	if err := f.league.CreateSeason("alice", 100); err != nil {
		t.Fatalf("create season: %v", err)
	}
	err = f.league.JoinSeason("bob", "Hawks")
	if apperrors.GetCode(err) != apperrors.CodeTeamNameMismatch {
		t.Fatalf("expected name mismatch for renamed member, got %v", err)
	}
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("rejoin under reserved name: %v", err)
	}
}

func TestJoinSeasonEmptyTeamName(t *testing.T) {
	f := newFixture(t)

	err := f.league.JoinSeason("bob", "   ")
	if apperrors.GetCode(err) != apperrors.CodeTeamNameEmpty {
		t.Fatalf("expected empty team name, got %v", err)
	}
}

func TestJoinSeasonInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 10)

	err := f.league.JoinSeason("bob", "Falcons")
	if apperrors.GetCode(err) != apperrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if _, ok := f.league.TeamName("bob"); ok {
		t.Fatal("expected no team name reserved on failed join")
	}
	if len(f.league.ActiveTeams()) != 1 {
		t.Fatal("expected bob not enrolled")
	}
}

func TestCreateSeasonStartsFreshMembership(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := f.league.CreateSeason("alice", 150); err != nil {
		t.Fatalf("create season: %v", err)
	}

	season, dues := f.league.CurrentSeason()
	if season != 1 || dues != 150 {
		t.Fatalf("expected season 1 with dues 150, got %d/%d", season, dues)
	}
	teams := f.league.ActiveTeams()
	if len(teams) != 1 || teams[0] != "alice" {
		t.Fatalf("expected only the commissioner active, got %v", teams)
	}
	// Founding dues 100 + bob 100 + new-season dues 150.
	if got := f.league.CashBalance(); got != 350 {
		t.Fatalf("expected custody 350, got %d", got)
	}
}

func TestCreateSeasonRequiresCommissioner(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)

	err := f.league.CreateSeason("bob", 100)
	if apperrors.GetCode(err) != apperrors.CodeNotCommissioner {
		t.Fatalf("expected not commissioner, got %v", err)
	}
}

func TestCreateSeasonDuesMustCoverFee(t *testing.T) {
	f := newFixture(t)
	f.directory.fee = 200

	err := f.league.CreateSeason("alice", 150)
	if apperrors.GetCode(err) != apperrors.CodeSeasonDuesTooLow {
		t.Fatalf("expected dues too low, got %v", err)
	}
	if meta := apperrors.GetMetadata(err); meta["fee"] != "200" {
		t.Fatalf("expected fee metadata 200, got %v", meta)
	}
	if season, _ := f.league.CurrentSeason(); season != 0 {
		t.Fatalf("expected still season 0, got %d", season)
	}
}

func TestCreateSeasonPaysFeeToBeneficiary(t *testing.T) {
	f := newFixture(t)
	f.directory.fee = 50

	if err := f.league.CreateSeason("alice", 200); err != nil {
		t.Fatalf("create season: %v", err)
	}

	if got := f.bank.BalanceOf("registry-fees"); got != 50 {
		t.Fatalf("expected beneficiary paid 50, got %d", got)
	}
	// Founding 100 + new dues 200 - fee 50.
	if got := f.league.CashBalance(); got != 250 {
		t.Fatalf("expected custody 250, got %d", got)
	}
}

func TestCreateSeasonRollsBackWhenCommissionerCannotPayDues(t *testing.T) {
	f := newFixture(t)

	// Founder holds 900 after founding dues; the new dues exceed that.
	err := f.league.CreateSeason("alice", 1000)
	if apperrors.GetCode(err) != apperrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	if season, dues := f.league.CurrentSeason(); season != 0 || dues != 100 {
		t.Fatalf("expected season rollback to 0/100, got %d/%d", season, dues)
	}
	if got := f.bank.BalanceOf("alice"); got != 900 {
		t.Fatalf("expected alice balance untouched at 900, got %d", got)
	}
	if got := f.league.CashBalance(); got != 100 {
		t.Fatalf("expected custody untouched at 100, got %d", got)
	}
}

func TestRemoveTeamRefundsDues(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := f.league.RemoveTeam("alice", "bob"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if got := f.bank.BalanceOf("bob"); got != 500 {
		t.Fatalf("expected bob refunded to 500, got %d", got)
	}
	teams := f.league.ActiveTeams()
	if len(teams) != 1 || teams[0] != "alice" {
		t.Fatalf("expected only alice active, got %v", teams)
	}
	// Lifetime membership and the reserved name survive removal.
	if name, ok := f.league.TeamName("bob"); !ok || name != "Falcons" {
		t.Fatalf("expected reserved name to survive, got %q", name)
	}
}

func TestRemoveTeamValidation(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := f.league.RemoveTeam("bob", "alice"); apperrors.GetCode(err) != apperrors.CodeNotCommissioner {
		t.Fatalf("expected not commissioner, got %v", err)
	}
	if err := f.league.RemoveTeam("alice", "carol"); apperrors.GetCode(err) != apperrors.CodeTeamNotActiveThisSeason {
		t.Fatalf("expected not active this season, got %v", err)
	}
}

func TestRemoveTeamCannotTouchRewardBacking(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}
	// Custody is 200; locking 150 leaves only 50 liquid against a 100 refund.
	if err := f.league.AllocateReward("alice", "bob", "prize", 150); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	err := f.league.RemoveTeam("alice", "bob")
	if apperrors.GetCode(err) != apperrors.CodeInsufficientCash {
		t.Fatalf("expected insufficient cash, got %v", err)
	}
	if len(f.league.ActiveTeams()) != 2 {
		t.Fatal("expected bob still active after failed removal")
	}
}

func TestRejoinAfterRemovalInSameSeason(t *testing.T) {
	f := newFixture(t)
	f.bank.Mint("bob", 500)
	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := f.league.RemoveTeam("alice", "bob"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := f.league.JoinSeason("bob", "Falcons"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if got := f.bank.BalanceOf("bob"); got != 400 {
		t.Fatalf("expected dues paid again, balance %d", got)
	}
}

func TestOperationsFailOnClosedLeague(t *testing.T) {
	f := newFixture(t)
	if err := f.league.CloseLeague("alice"); err != nil {
		t.Fatalf("close: %v", err)
	}

	assertInactive := func(name string, err error) {
		t.Helper()
		if apperrors.GetCode(err) != apperrors.CodeLeagueInactive {
			t.Fatalf("%s: expected league inactive, got %v", name, err)
		}
	}

	assertInactive("join", f.league.JoinSeason("bob", "Falcons"))
	assertInactive("create season", f.league.CreateSeason("alice", 100))
	assertInactive("remove team", f.league.RemoveTeam("alice", "bob"))
	assertInactive("set commissioner", f.league.SetCommissioner("alice", "bob"))
	assertInactive("add treasurer", f.league.AddTreasurer("alice", "bob"))
	assertInactive("allocate", f.league.AllocateReward("alice", "alice", "x", 1))
	assertInactive("close again", f.league.CloseLeague("alice"))
}
