package league

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/platform/id"
)

// Restore rebuilds a league from a persisted snapshot. Vault accountants
// live only for the life of the process, so the league comes back with no
// open positions; the caller returns their last snapshot value to custody
// cash alongside the cash balance.
func Restore(cfg Config, snap Snapshot) (*League, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}

	if strings.TrimSpace(snap.ID) == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "league snapshot carries no id")
	}
	name := strings.TrimSpace(snap.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeLeagueNameEmpty, "league display name is required")
	}
	if strings.TrimSpace(snap.Commissioner) == "" {
		return nil, apperrors.New(apperrors.CodeCommissionerEmpty, "commissioner account is required")
	}
	if len(snap.Seasons) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "league snapshot carries no seasons")
	}

	l := &League{
		id:             snap.ID,
		name:           name,
		account:        snap.ID,
		closed:         snap.Closed,
		commissioner:   snap.Commissioner,
		treasurers:     map[string]bool{},
		teamNames:      map[string]string{},
		nameOwners:     map[string]string{},
		members:        map[string]bool{},
		pendingRewards: map[string][]RewardEntry{},
		totalClaimable: snap.TotalClaimable,
		positions:      map[string]Accountant{},
		assets:         cfg.Assets,
		directory:      cfg.Directory,
		issuer:         cfg.Issuer,
		clock:          cfg.Clock,
		idGenerator:    cfg.IDGenerator,
		createdAt:      snap.CreatedAt,
	}

	for _, account := range snap.Treasurers {
		l.treasurers[account] = true
	}
	for account, teamName := range snap.TeamNames {
		l.teamNames[account] = teamName
		l.nameOwners[teamName] = account
		l.members[account] = true
	}

	seasons := make([]SeasonSnapshot, len(snap.Seasons))
	copy(seasons, snap.Seasons)
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Index < seasons[j].Index })
	l.seasons = make([]Season, len(seasons))
	for i, season := range seasons {
		teams := make([]string, len(season.ActiveTeams))
		copy(teams, season.ActiveTeams)
		l.seasons[i] = Season{Dues: season.Dues, ActiveTeams: teams}
	}

	rewards := make([]RewardSnapshot, len(snap.Rewards))
	copy(rewards, snap.Rewards)
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Team != rewards[j].Team {
			return rewards[i].Team < rewards[j].Team
		}
		return rewards[i].Slot < rewards[j].Slot
	})
	for _, reward := range rewards {
		l.pendingRewards[reward.Team] = append(l.pendingRewards[reward.Team], RewardEntry{
			Label:  reward.Label,
			Amount: reward.Amount,
		})
	}

	return l, nil
}
