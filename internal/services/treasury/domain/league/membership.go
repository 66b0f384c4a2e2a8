package league

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
)

// JoinSeason enrolls the caller into the current season under the given
// team name, paying the current season's dues from the caller's own funds
// into league custody.
//
// Team names unify globally across the league's history: a first-time
// joiner reserves the name for life, a returning member must reuse their
// reserved name, and no account may take a name reserved by another.
func (l *League) JoinSeason(caller, teamName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	return l.enroll(caller, teamName)
}

// enroll runs the join path shared by JoinSeason, league founding, and
// season creation. Caller must hold l.mu (or own the league exclusively).
func (l *League) enroll(account, teamName string) error {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return apperrors.New(apperrors.CodeTeamNameEmpty, "team name is required")
	}

	if l.isActiveThisSeason(account) {
		return apperrors.New(apperrors.CodeTeamAlreadyJoined, "team is already active this season")
	}

	if l.members[account] {
		if l.teamNames[account] != teamName {
			return apperrors.WithMetadata(apperrors.CodeTeamNameMismatch,
				"account has a different registered team name",
				map[string]string{"registered": l.teamNames[account]})
		}
	} else if owner, taken := l.nameOwners[teamName]; taken && owner != account {
		return apperrors.WithMetadata(apperrors.CodeTeamNameMismatch,
			"team name is reserved by another account",
			map[string]string{"name": teamName})
	}

	season := l.currentSeason()
	if err := l.assets.Transfer(account, l.account, season.Dues); err != nil {
		return err
	}

	if !l.members[account] {
		l.members[account] = true
		l.teamNames[account] = teamName
		l.nameOwners[teamName] = account
	}
	season.ActiveTeams = append(season.ActiveTeams, account)
	return nil
}

// CreateSeason appends a new season with the given dues and enrolls the
// commissioner into it through the join path, paying the new dues. When the
// registry charges a season-creation fee, that exact amount leaves league
// cash for the registry's beneficiary before the season is usable.
func (l *League) CreateSeason(caller string, dues uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}

	fee := l.directory.SeasonCreationFee()
	if dues < fee {
		return apperrors.WithMetadata(apperrors.CodeSeasonDuesTooLow,
			"season dues must cover the season creation fee",
			map[string]string{"fee": strconv.FormatUint(fee, 10)})
	}

	l.seasons = append(l.seasons, Season{Dues: dues})
	if err := l.enroll(caller, l.teamNames[caller]); err != nil {
		l.seasons = l.seasons[:len(l.seasons)-1]
		return err
	}

	if fee > 0 {
		// The fee may not dig into cash that backs pending rewards.
		if fee > l.liquidCash() {
			l.unenrollCurrent(caller)
			l.seasons = l.seasons[:len(l.seasons)-1]
			return apperrors.New(apperrors.CodeInsufficientCash,
				"league cash cannot cover the season creation fee")
		}
		if err := l.assets.Transfer(l.account, l.directory.FeeBeneficiary(), fee); err != nil {
			l.unenrollCurrent(caller)
			l.seasons = l.seasons[:len(l.seasons)-1]
			return err
		}
	}

	return nil
}

// unenrollCurrent unwinds a just-executed enroll of account into the
// current season, refunding its dues. Used only for all-or-nothing rollback
// inside a mutating operation.
func (l *League) unenrollCurrent(account string) {
	season := l.currentSeason()
	for i, team := range season.ActiveTeams {
		if team == account {
			last := len(season.ActiveTeams) - 1
			season.ActiveTeams[i] = season.ActiveTeams[last]
			season.ActiveTeams = season.ActiveTeams[:last]
			break
		}
	}
	_ = l.assets.Transfer(l.account, account, season.Dues)
}

// RemoveTeam removes a team from the current season's active list and
// refunds that season's dues from league cash. Lifetime membership and the
// reserved team name survive removal.
func (l *League) RemoveTeam(caller, team string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errInactive()
	}
	if err := l.requireCommissioner(caller); err != nil {
		return err
	}

	season := l.currentSeason()
	idx := -1
	for i, active := range season.ActiveTeams {
		if active == team {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperrors.New(apperrors.CodeTeamNotActiveThisSeason, "team is not active in the current season")
	}

	// The refund may not dig into cash that backs pending rewards.
	if season.Dues > l.liquidCash() {
		return apperrors.New(apperrors.CodeInsufficientCash, "league cash cannot cover the dues refund")
	}
	if err := l.assets.Transfer(l.account, team, season.Dues); err != nil {
		return err
	}

	// Swap-with-last removal; ordering of the active list is not stable.
	last := len(season.ActiveTeams) - 1
	season.ActiveTeams[idx] = season.ActiveTeams[last]
	season.ActiveTeams = season.ActiveTeams[:last]
	return nil
}
