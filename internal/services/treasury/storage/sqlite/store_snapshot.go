package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/leaguepool/internal/services/treasury/storage"
)

// SaveSnapshot replaces all records for the snapshot's league in one
// transaction, so readers never observe a half-written snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot storage.LeagueSnapshot) error {
	leagueID := strings.TrimSpace(snapshot.League.ID)
	if leagueID == "" {
		return fmt.Errorf("league id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"vault_positions", "rewards", "treasurers", "team_names", "season_teams", "seasons"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE league_id = ?", leagueID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO leagues (id, name, commissioner, closed, cash_balance, total_claimable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name,
		     commissioner = excluded.commissioner,
		     closed = excluded.closed,
		     cash_balance = excluded.cash_balance,
		     total_claimable = excluded.total_claimable,
		     updated_at = excluded.updated_at`,
		leagueID,
		snapshot.League.Name,
		snapshot.League.Commissioner,
		boolToInt(snapshot.League.Closed),
		int64(snapshot.League.CashBalance),
		int64(snapshot.League.TotalClaimable),
		toMillis(snapshot.League.CreatedAt),
		toMillis(snapshot.League.UpdatedAt),
	); err != nil {
		return fmt.Errorf("save league: %w", err)
	}

	for _, season := range snapshot.Seasons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO seasons (league_id, season_index, dues) VALUES (?, ?, ?)`,
			leagueID, season.Index, int64(season.Dues),
		); err != nil {
			return fmt.Errorf("save season %d: %w", season.Index, err)
		}
	}

	for _, membership := range snapshot.Memberships {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO season_teams (league_id, season_index, account, slot) VALUES (?, ?, ?, ?)`,
			leagueID, membership.SeasonIndex, membership.Account, membership.Slot,
		); err != nil {
			return fmt.Errorf("save membership: %w", err)
		}
	}

	for _, teamName := range snapshot.TeamNames {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_names (league_id, account, name) VALUES (?, ?, ?)`,
			leagueID, teamName.Account, teamName.Name,
		); err != nil {
			return fmt.Errorf("save team name: %w", err)
		}
	}

	for _, treasurer := range snapshot.Treasurers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO treasurers (league_id, account) VALUES (?, ?)`,
			leagueID, treasurer.Account,
		); err != nil {
			return fmt.Errorf("save treasurer: %w", err)
		}
	}

	for _, reward := range snapshot.Rewards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rewards (league_id, team, slot, label, amount) VALUES (?, ?, ?, ?, ?)`,
			leagueID, reward.Team, reward.Slot, reward.Label, int64(reward.Amount),
		); err != nil {
			return fmt.Errorf("save reward: %w", err)
		}
	}

	for _, position := range snapshot.Positions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vault_positions (league_id, vault_id, units, asset_value) VALUES (?, ?, ?, ?)`,
			leagueID, position.VaultID, int64(position.Units), int64(position.AssetValue),
		); err != nil {
			return fmt.Errorf("save vault position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads all records for one league.
// Returns storage.ErrNotFound if the league was never saved.
func (s *Store) GetSnapshot(ctx context.Context, leagueID string) (storage.LeagueSnapshot, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return storage.LeagueSnapshot{}, fmt.Errorf("league id is required")
	}

	var snapshot storage.LeagueSnapshot
	var closed int
	var cash, claimable, createdAtMillis, updatedAtMillis int64
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, commissioner, closed, cash_balance, total_claimable, created_at, updated_at
		 FROM leagues WHERE id = ?`, leagueID)
	err := row.Scan(
		&snapshot.League.ID,
		&snapshot.League.Name,
		&snapshot.League.Commissioner,
		&closed,
		&cash,
		&claimable,
		&createdAtMillis,
		&updatedAtMillis,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.LeagueSnapshot{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.LeagueSnapshot{}, fmt.Errorf("get league: %w", err)
	}
	snapshot.League.Closed = closed != 0
	snapshot.League.CashBalance = uint64(cash)
	snapshot.League.TotalClaimable = uint64(claimable)
	snapshot.League.CreatedAt = fromMillis(createdAtMillis)
	snapshot.League.UpdatedAt = fromMillis(updatedAtMillis)

	if snapshot.Seasons, err = s.listSeasons(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	if snapshot.Memberships, err = s.listMemberships(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	if snapshot.TeamNames, err = s.listTeamNames(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	if snapshot.Treasurers, err = s.listTreasurers(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	if snapshot.Rewards, err = s.listRewards(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	if snapshot.Positions, err = s.listPositions(ctx, leagueID); err != nil {
		return storage.LeagueSnapshot{}, err
	}
	return snapshot, nil
}

// ListLeagues returns league-level records ordered by id.
func (s *Store) ListLeagues(ctx context.Context) ([]storage.LeagueRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, commissioner, closed, cash_balance, total_claimable, created_at, updated_at
		 FROM leagues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []storage.LeagueRecord
	for rows.Next() {
		var record storage.LeagueRecord
		var closed int
		var cash, claimable, createdAtMillis, updatedAtMillis int64
		if err := rows.Scan(
			&record.ID, &record.Name, &record.Commissioner, &closed,
			&cash, &claimable, &createdAtMillis, &updatedAtMillis,
		); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		record.Closed = closed != 0
		record.CashBalance = uint64(cash)
		record.TotalClaimable = uint64(claimable)
		record.CreatedAt = fromMillis(createdAtMillis)
		record.UpdatedAt = fromMillis(updatedAtMillis)
		leagues = append(leagues, record)
	}
	return leagues, rows.Err()
}

// DeleteLeague removes all records for a league.
func (s *Store) DeleteLeague(ctx context.Context, leagueID string) error {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM leagues WHERE id = ?", leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}

func (s *Store) listSeasons(ctx context.Context, leagueID string) ([]storage.SeasonRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT season_index, dues FROM seasons WHERE league_id = ? ORDER BY season_index`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []storage.SeasonRecord
	for rows.Next() {
		record := storage.SeasonRecord{LeagueID: leagueID}
		var dues int64
		if err := rows.Scan(&record.Index, &dues); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		record.Dues = uint64(dues)
		seasons = append(seasons, record)
	}
	return seasons, rows.Err()
}

func (s *Store) listMemberships(ctx context.Context, leagueID string) ([]storage.MembershipRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT season_index, account, slot FROM season_teams
		 WHERE league_id = ? ORDER BY season_index, slot`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []storage.MembershipRecord
	for rows.Next() {
		record := storage.MembershipRecord{LeagueID: leagueID}
		if err := rows.Scan(&record.SeasonIndex, &record.Account, &record.Slot); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, record)
	}
	return memberships, rows.Err()
}

func (s *Store) listTeamNames(ctx context.Context, leagueID string) ([]storage.TeamNameRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT account, name FROM team_names WHERE league_id = ? ORDER BY account`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list team names: %w", err)
	}
	defer rows.Close()

	var names []storage.TeamNameRecord
	for rows.Next() {
		record := storage.TeamNameRecord{LeagueID: leagueID}
		if err := rows.Scan(&record.Account, &record.Name); err != nil {
			return nil, fmt.Errorf("scan team name: %w", err)
		}
		names = append(names, record)
	}
	return names, rows.Err()
}

func (s *Store) listTreasurers(ctx context.Context, leagueID string) ([]storage.TreasurerRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT account FROM treasurers WHERE league_id = ? ORDER BY account`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list treasurers: %w", err)
	}
	defer rows.Close()

	var treasurers []storage.TreasurerRecord
	for rows.Next() {
		record := storage.TreasurerRecord{LeagueID: leagueID}
		if err := rows.Scan(&record.Account); err != nil {
			return nil, fmt.Errorf("scan treasurer: %w", err)
		}
		treasurers = append(treasurers, record)
	}
	return treasurers, rows.Err()
}

func (s *Store) listRewards(ctx context.Context, leagueID string) ([]storage.RewardRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT team, slot, label, amount FROM rewards WHERE league_id = ? ORDER BY team, slot`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []storage.RewardRecord
	for rows.Next() {
		record := storage.RewardRecord{LeagueID: leagueID}
		var amount int64
		if err := rows.Scan(&record.Team, &record.Slot, &record.Label, &amount); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		record.Amount = uint64(amount)
		rewards = append(rewards, record)
	}
	return rewards, rows.Err()
}

func (s *Store) listPositions(ctx context.Context, leagueID string) ([]storage.PositionRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT vault_id, units, asset_value FROM vault_positions WHERE league_id = ? ORDER BY vault_id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list vault positions: %w", err)
	}
	defer rows.Close()

	var positions []storage.PositionRecord
	for rows.Next() {
		record := storage.PositionRecord{LeagueID: leagueID}
		var units, value int64
		if err := rows.Scan(&record.VaultID, &units, &value); err != nil {
			return nil, fmt.Errorf("scan vault position: %w", err)
		}
		record.Units = uint64(units)
		record.AssetValue = uint64(value)
		positions = append(positions, record)
	}
	return positions, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
