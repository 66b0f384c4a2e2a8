package league

import "time"

// Snapshot is a read-model export of the league's committed state, used by
// the storage layer to persist projections after each successful mutating
// operation.
type Snapshot struct {
	ID             string
	Name           string
	Commissioner   string
	Treasurers     []string
	Closed         bool
	CashBalance    uint64
	TotalClaimable uint64
	CreatedAt      time.Time

	Seasons   []SeasonSnapshot
	TeamNames map[string]string
	Rewards   []RewardSnapshot
	Positions []PositionSnapshot
}

// SeasonSnapshot captures one season's dues and active membership.
type SeasonSnapshot struct {
	Index       int
	Dues        uint64
	ActiveTeams []string
}

// RewardSnapshot captures one pending reward entry. Slot preserves
// allocation order within a team's pending list.
type RewardSnapshot struct {
	Team   string
	Slot   int
	Label  string
	Amount uint64
}

// PositionSnapshot captures one open vault position at current prices.
type PositionSnapshot struct {
	VaultID    string
	Units      uint64
	AssetValue uint64
}

// Snapshot exports the league's committed state.
func (l *League) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		ID:             l.id,
		Name:           l.name,
		Commissioner:   l.commissioner,
		Closed:         l.closed,
		CashBalance:    l.assets.BalanceOf(l.account),
		TotalClaimable: l.totalClaimable,
		CreatedAt:      l.createdAt,
		TeamNames:      make(map[string]string, len(l.teamNames)),
	}

	for account := range l.treasurers {
		snap.Treasurers = append(snap.Treasurers, account)
	}
	for account, name := range l.teamNames {
		snap.TeamNames[account] = name
	}

	snap.Seasons = make([]SeasonSnapshot, len(l.seasons))
	for i, season := range l.seasons {
		teams := make([]string, len(season.ActiveTeams))
		copy(teams, season.ActiveTeams)
		snap.Seasons[i] = SeasonSnapshot{Index: i, Dues: season.Dues, ActiveTeams: teams}
	}

	for team, entries := range l.pendingRewards {
		for slot, entry := range entries {
			snap.Rewards = append(snap.Rewards, RewardSnapshot{
				Team:   team,
				Slot:   slot,
				Label:  entry.Label,
				Amount: entry.Amount,
			})
		}
	}

	for vault, acct := range l.positions {
		units := acct.UnitsOf(l.account)
		snap.Positions = append(snap.Positions, PositionSnapshot{
			VaultID:    vault,
			Units:      units,
			AssetValue: acct.ConvertToAssets(units),
		})
	}

	return snap
}
