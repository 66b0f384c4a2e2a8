// Package registry is the directory service leagues and vault accountants
// trust as ground truth: it creates league ledgers, enforces global
// display-name uniqueness, approves vaults, and holds the season-creation
// fee schedule and the reward-certificate issuer reference.
package registry

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/certificate"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/league"
)

// Registry is an in-memory directory of leagues and approved vaults.
type Registry struct {
	mu sync.Mutex

	names   map[string]string         // display name -> ledger account
	ledgers map[string]*league.League // ledger account -> league
	vaults  map[string]bool

	fee         uint64
	beneficiary string

	assets asset.Ledger
	issuer certificate.Issuer

	clock       func() time.Time
	idGenerator func() (string, error)
}

// Config describes registry construction inputs.
type Config struct {
	Assets         asset.Ledger
	Issuer         certificate.Issuer
	FeeBeneficiary string

	Clock       func() time.Time
	IDGenerator func() (string, error)
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	return &Registry{
		names:       map[string]string{},
		ledgers:     map[string]*league.League{},
		vaults:      map[string]bool{},
		beneficiary: cfg.FeeBeneficiary,
		assets:      cfg.Assets,
		issuer:      cfg.Issuer,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
	}
}

// CreateLeague constructs a league ledger after enforcing global
// display-name uniqueness, and recognizes it as a ledger.
func (r *Registry) CreateLeague(displayName string, initialDues uint64, initialTeamName, founder string) (*league.League, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeLeagueNameEmpty, "league display name is required")
	}

	r.mu.Lock()
	if _, taken := r.names[name]; taken {
		r.mu.Unlock()
		return nil, apperrors.WithMetadata(apperrors.CodeLeagueNameTaken,
			"league display name is already registered",
			map[string]string{"name": name})
	}
	// Reserve the name before constructing, so concurrent creates cannot
	// race past the uniqueness check while the founder pays dues.
	r.names[name] = ""
	issuer := r.issuer
	r.mu.Unlock()

	lg, err := league.New(league.Config{
		DisplayName:     name,
		InitialDues:     initialDues,
		InitialTeamName: initialTeamName,
		Founder:         founder,
		Assets:          r.assets,
		Directory:       r,
		Issuer:          issuer,
		Clock:           r.clock,
		IDGenerator:     r.idGenerator,
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		delete(r.names, name)
		return nil, err
	}
	r.names[name] = lg.Account()
	r.ledgers[lg.Account()] = lg
	return lg, nil
}

// RestoreLeague registers a league rebuilt from a persisted snapshot,
// enforcing the same display-name uniqueness as CreateLeague.
func (r *Registry) RestoreLeague(snap league.Snapshot) (*league.League, error) {
	name := strings.TrimSpace(snap.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.names[name]; taken {
		return nil, apperrors.WithMetadata(apperrors.CodeLeagueNameTaken,
			"league display name is already registered",
			map[string]string{"name": name})
	}

	lg, err := league.Restore(league.Config{
		Assets:      r.assets,
		Directory:   r,
		Issuer:      r.issuer,
		Clock:       r.clock,
		IDGenerator: r.idGenerator,
	}, snap)
	if err != nil {
		return nil, err
	}

	r.names[lg.Name()] = lg.Account()
	r.ledgers[lg.Account()] = lg
	return lg, nil
}

// Ledger returns the league registered under the given ledger account.
func (r *Registry) Ledger(account string) (*league.League, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.ledgers[account]
	return lg, ok
}

// Ledgers returns all registered leagues.
func (r *Registry) Ledgers() []*league.League {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*league.League, 0, len(r.ledgers))
	for _, lg := range r.ledgers {
		out = append(out, lg)
	}
	return out
}

// ApproveVault marks a vault as approved for league deposits.
func (r *Registry) ApproveVault(vault string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vaults[vault] = true
}

// SetSeasonCreationFee updates the global season-creation fee.
func (r *Registry) SetSeasonCreationFee(fee uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fee = fee
}

// IsRecognizedLedger reports whether the account is a registered league
// ledger.
func (r *Registry) IsRecognizedLedger(account string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ledgers[account]
	return ok
}

// IsApprovedVault reports whether the vault is approved for deposits.
func (r *Registry) IsApprovedVault(vault string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vaults[vault]
}

// SeasonCreationFee returns the current global season-creation fee.
func (r *Registry) SeasonCreationFee() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fee
}

// FeeBeneficiary returns the account season-creation fees are paid to.
func (r *Registry) FeeBeneficiary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beneficiary
}

// CertificateIssuer returns the reward-certificate issuer reference.
func (r *Registry) CertificateIssuer() certificate.Issuer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issuer
}

// SetCertificateIssuer installs the reward-certificate issuer. The signer
// and the registry reference each other, so the issuer is bound after
// construction.
func (r *Registry) SetCertificateIssuer(issuer certificate.Issuer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issuer = issuer
}

// Deregister removes a closed league, freeing its display name for reuse.
func (r *Registry) Deregister(account string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.ledgers[account]
	if !ok {
		return
	}
	delete(r.ledgers, account)
	delete(r.names, lg.Name())
}
