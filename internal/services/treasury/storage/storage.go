// Package storage defines the persistence records and store contracts for
// treasury read models. Stores persist league snapshots as projections:
// they are written after each successful mutating operation and read by
// list/detail queries and the solvency audit.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// LeagueRecord captures league-level state that list/detail queries and the
// solvency audit read.
type LeagueRecord struct {
	ID             string
	Name           string
	Commissioner   string
	Closed         bool
	CashBalance    uint64
	TotalClaimable uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SeasonRecord captures one season's dues. Season index is the season id.
type SeasonRecord struct {
	LeagueID string
	Index    int
	Dues     uint64
}

// MembershipRecord captures a team's enrollment in one season. Slot
// preserves enumeration order within the season's active list.
type MembershipRecord struct {
	LeagueID    string
	SeasonIndex int
	Account     string
	Slot        int
}

// TeamNameRecord captures a permanent team-name reservation.
type TeamNameRecord struct {
	LeagueID string
	Account  string
	Name     string
}

// TreasurerRecord captures a treasurer role grant.
type TreasurerRecord struct {
	LeagueID string
	Account  string
}

// RewardRecord captures one pending reward entry. Slot preserves
// allocation order within a team's pending list (claims consume the
// highest slot first).
type RewardRecord struct {
	LeagueID string
	Team     string
	Slot     int
	Label    string
	Amount   uint64
}

// PositionRecord captures one open vault position, valued at the external
// vault's price when the snapshot was taken.
type PositionRecord struct {
	LeagueID   string
	VaultID    string
	Units      uint64
	AssetValue uint64
}

// LeagueSnapshot bundles all records describing one league at a point in
// time.
type LeagueSnapshot struct {
	League      LeagueRecord
	Seasons     []SeasonRecord
	Memberships []MembershipRecord
	TeamNames   []TeamNameRecord
	Treasurers  []TreasurerRecord
	Rewards     []RewardRecord
	Positions   []PositionRecord
}

// LeagueStore persists league snapshots.
type LeagueStore interface {
	// SaveSnapshot replaces all records for the snapshot's league.
	SaveSnapshot(ctx context.Context, snapshot LeagueSnapshot) error
	// GetSnapshot loads all records for one league.
	// Returns ErrNotFound if the league was never saved.
	GetSnapshot(ctx context.Context, leagueID string) (LeagueSnapshot, error)
	// ListLeagues returns league-level records ordered by id.
	ListLeagues(ctx context.Context) ([]LeagueRecord, error)
	// DeleteLeague removes all records for a league.
	DeleteLeague(ctx context.Context, leagueID string) error
}
