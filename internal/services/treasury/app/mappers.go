package app

import (
	"sort"
	"time"

	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/league"
	"github.com/louisbranch/leaguepool/internal/services/treasury/storage"
)

// toStorageSnapshot maps a domain snapshot into storage records. Map-backed
// collections are sorted so persisted snapshots are deterministic.
func toStorageSnapshot(snap league.Snapshot, now time.Time) storage.LeagueSnapshot {
	out := storage.LeagueSnapshot{
		League: storage.LeagueRecord{
			ID:             snap.ID,
			Name:           snap.Name,
			Commissioner:   snap.Commissioner,
			Closed:         snap.Closed,
			CashBalance:    snap.CashBalance,
			TotalClaimable: snap.TotalClaimable,
			CreatedAt:      snap.CreatedAt,
			UpdatedAt:      now,
		},
	}

	for _, season := range snap.Seasons {
		out.Seasons = append(out.Seasons, storage.SeasonRecord{
			LeagueID: snap.ID,
			Index:    season.Index,
			Dues:     season.Dues,
		})
		for slot, account := range season.ActiveTeams {
			out.Memberships = append(out.Memberships, storage.MembershipRecord{
				LeagueID:    snap.ID,
				SeasonIndex: season.Index,
				Account:     account,
				Slot:        slot,
			})
		}
	}

	accounts := make([]string, 0, len(snap.TeamNames))
	for account := range snap.TeamNames {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	for _, account := range accounts {
		out.TeamNames = append(out.TeamNames, storage.TeamNameRecord{
			LeagueID: snap.ID,
			Account:  account,
			Name:     snap.TeamNames[account],
		})
	}

	treasurers := make([]string, len(snap.Treasurers))
	copy(treasurers, snap.Treasurers)
	sort.Strings(treasurers)
	for _, account := range treasurers {
		out.Treasurers = append(out.Treasurers, storage.TreasurerRecord{
			LeagueID: snap.ID,
			Account:  account,
		})
	}

	rewards := make([]league.RewardSnapshot, len(snap.Rewards))
	copy(rewards, snap.Rewards)
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Team != rewards[j].Team {
			return rewards[i].Team < rewards[j].Team
		}
		return rewards[i].Slot < rewards[j].Slot
	})
	for _, reward := range rewards {
		out.Rewards = append(out.Rewards, storage.RewardRecord{
			LeagueID: snap.ID,
			Team:     reward.Team,
			Slot:     reward.Slot,
			Label:    reward.Label,
			Amount:   reward.Amount,
		})
	}

	positions := make([]league.PositionSnapshot, len(snap.Positions))
	copy(positions, snap.Positions)
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].VaultID < positions[j].VaultID
	})
	for _, position := range positions {
		out.Positions = append(out.Positions, storage.PositionRecord{
			LeagueID:   snap.ID,
			VaultID:    position.VaultID,
			Units:      position.Units,
			AssetValue: position.AssetValue,
		})
	}

	return out
}

// fromStorageSnapshot maps storage records back into a domain snapshot.
// Slots rebuild the original ordering inside season active lists and
// pending reward lists.
func fromStorageSnapshot(snap storage.LeagueSnapshot) league.Snapshot {
	out := league.Snapshot{
		ID:             snap.League.ID,
		Name:           snap.League.Name,
		Commissioner:   snap.League.Commissioner,
		Closed:         snap.League.Closed,
		CashBalance:    snap.League.CashBalance,
		TotalClaimable: snap.League.TotalClaimable,
		CreatedAt:      snap.League.CreatedAt,
		TeamNames:      make(map[string]string, len(snap.TeamNames)),
	}

	for _, record := range snap.TeamNames {
		out.TeamNames[record.Account] = record.Name
	}
	for _, record := range snap.Treasurers {
		out.Treasurers = append(out.Treasurers, record.Account)
	}

	memberships := make([]storage.MembershipRecord, len(snap.Memberships))
	copy(memberships, snap.Memberships)
	sort.Slice(memberships, func(i, j int) bool {
		if memberships[i].SeasonIndex != memberships[j].SeasonIndex {
			return memberships[i].SeasonIndex < memberships[j].SeasonIndex
		}
		return memberships[i].Slot < memberships[j].Slot
	})

	seasons := make([]storage.SeasonRecord, len(snap.Seasons))
	copy(seasons, snap.Seasons)
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Index < seasons[j].Index })
	for _, season := range seasons {
		seasonSnap := league.SeasonSnapshot{Index: season.Index, Dues: season.Dues}
		for _, membership := range memberships {
			if membership.SeasonIndex == season.Index {
				seasonSnap.ActiveTeams = append(seasonSnap.ActiveTeams, membership.Account)
			}
		}
		out.Seasons = append(out.Seasons, seasonSnap)
	}

	rewards := make([]storage.RewardRecord, len(snap.Rewards))
	copy(rewards, snap.Rewards)
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Team != rewards[j].Team {
			return rewards[i].Team < rewards[j].Team
		}
		return rewards[i].Slot < rewards[j].Slot
	})
	for _, reward := range rewards {
		out.Rewards = append(out.Rewards, league.RewardSnapshot{
			Team:   reward.Team,
			Slot:   reward.Slot,
			Label:  reward.Label,
			Amount: reward.Amount,
		})
	}

	for _, position := range snap.Positions {
		out.Positions = append(out.Positions, league.PositionSnapshot{
			VaultID:    position.VaultID,
			Units:      position.Units,
			AssetValue: position.AssetValue,
		})
	}

	return out
}
