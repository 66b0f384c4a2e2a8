// Package league owns the season lifecycle, team membership, cash custody,
// and reward accounting of one membership league.
//
// A league pools member dues into a custody account per season, lets the
// commissioner allocate rewards against liquid cash, and lets treasurers
// place pooled cash into vault positions through accountants. Every
// mutating operation is atomic with respect to all other operations on the
// same league.
package league

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/platform/id"
	"github.com/louisbranch/leaguepool/internal/services/treasury/certificate"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
)

// Directory is the registry surface the league consumes. The league trusts
// these answers as ground truth and performs no independent verification.
type Directory interface {
	IsApprovedVault(vault string) bool
	SeasonCreationFee() uint64
	FeeBeneficiary() string
	Deregister(ledger string)
}

// Accountant is the vault position surface the league orchestrates
// deposits into and withdrawals from.
type Accountant interface {
	VaultID() string
	Deposit(caller string, amount uint64, onBehalfOf string) (uint64, error)
	Redeem(caller string, units uint64, receiver, onBehalfOf string) (uint64, error)
	UnitsOf(owner string) uint64
	ConvertToAssets(units uint64) uint64
}

// Season is a dues-bound membership period. ActiveTeams lists current
// members of this season only; removal swaps with the last element, so
// ordering is not stable across removals.
type Season struct {
	Dues        uint64
	ActiveTeams []string
}

// RewardEntry is a commissioner-authorized, not-yet-paid credit owed to a
// team.
type RewardEntry struct {
	Label  string
	Amount uint64
}

// League is one instance of the membership/fund ledger.
type League struct {
	mu sync.Mutex

	id      string
	name    string
	account string
	closed  bool

	seasons []Season

	commissioner string
	treasurers   map[string]bool

	// Team names are keyed globally per league: once a name is used by an
	// account it can never be reused by a different account, and an account
	// keeps exactly one name for the life of the league.
	teamNames  map[string]string // account -> name (write-once)
	nameOwners map[string]string // name -> account (permanent)
	members    map[string]bool   // lifetime membership

	pendingRewards map[string][]RewardEntry
	totalClaimable uint64

	positions map[string]Accountant // vault id -> accountant with an open position

	assets    asset.Ledger
	directory Directory
	issuer    certificate.Issuer

	clock       func() time.Time
	idGenerator func() (string, error)
	createdAt   time.Time
}

// Config describes the inputs needed to found a league. The registry
// enforces global display-name uniqueness before construction.
type Config struct {
	DisplayName     string
	InitialDues     uint64
	InitialTeamName string
	Founder         string

	Assets    asset.Ledger
	Directory Directory
	Issuer    certificate.Issuer

	Clock       func() time.Time
	IDGenerator func() (string, error)
}

// New founds a league: the founder becomes commissioner and treasurer,
// season 0 is created with the initial dues, and the founder joins it
// paying those dues into league custody.
func New(cfg Config) (*League, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}

	name := strings.TrimSpace(cfg.DisplayName)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeLeagueNameEmpty, "league display name is required")
	}
	founder := strings.TrimSpace(cfg.Founder)
	if founder == "" {
		return nil, apperrors.New(apperrors.CodeLeagueFounderEmpty, "league founder account is required")
	}
	teamName := strings.TrimSpace(cfg.InitialTeamName)
	if teamName == "" {
		return nil, apperrors.New(apperrors.CodeTeamNameEmpty, "founding team name is required")
	}

	leagueID, err := cfg.IDGenerator()
	if err != nil {
		return nil, err
	}

	l := &League{
		id:             leagueID,
		name:           name,
		account:        leagueID,
		seasons:        []Season{{Dues: cfg.InitialDues}},
		commissioner:   founder,
		treasurers:     map[string]bool{founder: true},
		teamNames:      map[string]string{},
		nameOwners:     map[string]string{},
		members:        map[string]bool{},
		pendingRewards: map[string][]RewardEntry{},
		positions:      map[string]Accountant{},
		assets:         cfg.Assets,
		directory:      cfg.Directory,
		issuer:         cfg.Issuer,
		clock:          cfg.Clock,
		idGenerator:    cfg.IDGenerator,
		createdAt:      cfg.Clock().UTC(),
	}

	// Founder joins season 0 through the same path as any member.
	if err := l.enroll(founder, teamName); err != nil {
		return nil, err
	}

	return l, nil
}

// ID returns the league's identifier, which is also its custody account in
// the settlement-asset ledger.
func (l *League) ID() string { return l.id }

// Name returns the league's immutable display name.
func (l *League) Name() string { return l.name }

// Account returns the league's custody account id.
func (l *League) Account() string { return l.account }

// CreatedAt returns the founding time.
func (l *League) CreatedAt() time.Time { return l.createdAt }

// Closed reports whether the league has been permanently closed.
func (l *League) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// CashBalance returns the league's liquid custody balance.
func (l *League) CashBalance() uint64 {
	return l.assets.BalanceOf(l.account)
}

// TotalClaimableRewards returns the sum of all pending reward amounts.
func (l *League) TotalClaimableRewards() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalClaimable
}

// CurrentSeason returns the index and dues of the current season.
func (l *League) CurrentSeason() (int, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := len(l.seasons) - 1
	return current, l.seasons[current].Dues
}

// ActiveTeams returns the accounts active in the current season. Treat the
// result as a set: ordering is not stable across removals.
func (l *League) ActiveTeams() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.seasons[len(l.seasons)-1]
	out := make([]string, len(current.ActiveTeams))
	copy(out, current.ActiveTeams)
	return out
}

// TeamName returns the registered team name for an account, if any.
func (l *League) TeamName(account string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name, ok := l.teamNames[account]
	return name, ok
}

// PendingRewards returns a copy of the pending reward entries for a team,
// oldest first.
func (l *League) PendingRewards(team string) []RewardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.pendingRewards[team]
	out := make([]RewardEntry, len(entries))
	copy(out, entries)
	return out
}

// errInactive is the shared closed-league failure.
func errInactive() error {
	return apperrors.New(apperrors.CodeLeagueInactive, "league has been closed")
}

func (l *League) requireCommissioner(caller string) error {
	if caller != l.commissioner {
		return apperrors.WithMetadata(apperrors.CodeNotCommissioner,
			"caller does not hold the commissioner role",
			map[string]string{"caller": caller})
	}
	return nil
}

func (l *League) requireTreasurer(caller string) error {
	if !l.treasurers[caller] {
		return apperrors.WithMetadata(apperrors.CodeNotTreasurer,
			"caller does not hold the treasurer role",
			map[string]string{"caller": caller})
	}
	return nil
}

func (l *League) currentSeason() *Season {
	return &l.seasons[len(l.seasons)-1]
}

func (l *League) isActiveThisSeason(account string) bool {
	for _, team := range l.currentSeason().ActiveTeams {
		if team == account {
			return true
		}
	}
	return false
}

// liquidCash returns the cash not already backing pending rewards.
func (l *League) liquidCash() uint64 {
	cash := l.assets.BalanceOf(l.account)
	if cash < l.totalClaimable {
		return 0
	}
	return cash - l.totalClaimable
}
