package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/leaguepool/internal/services/treasury/certificate"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
	"github.com/louisbranch/leaguepool/internal/services/treasury/registry"
	"github.com/louisbranch/leaguepool/internal/services/treasury/storage/sqlite"
)

// Bootstrap holds the wired treasury service and its owned resources.
type Bootstrap struct {
	Config  Config
	Service *Service
	Store   *sqlite.Store
}

// NewBootstrap opens the store and wires the settlement bank, certificate
// signer, registry, and service, then reloads open leagues from the store.
func NewBootstrap(cfg Config) (*Bootstrap, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open treasury store: %w", err)
	}

	bank := asset.NewBank()
	reg := registry.New(registry.Config{
		Assets:         bank,
		FeeBeneficiary: cfg.FeeBeneficiary,
	})
	signer := certificate.NewSigner([]byte(cfg.CertificateSecret), reg)
	reg.SetCertificateIssuer(signer)
	reg.SetSeasonCreationFee(cfg.SeasonCreationFee)

	if err := restoreLeagues(context.Background(), store, reg, bank); err != nil {
		store.Close()
		return nil, fmt.Errorf("restore leagues: %w", err)
	}

	return &Bootstrap{
		Config:  cfg,
		Service: NewService(reg, bank, store),
		Store:   store,
	}, nil
}

// restoreLeagues reloads every open league snapshot into the registry.
// Vault accountants do not survive a restart, so each open position's last
// snapshot value is returned to custody cash along with the cash balance.
func restoreLeagues(ctx context.Context, store *sqlite.Store, reg *registry.Registry, bank *asset.Bank) error {
	records, err := store.ListLeagues(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Closed {
			continue
		}
		stored, err := store.GetSnapshot(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("league %s: %w", record.ID, err)
		}
		snap := fromStorageSnapshot(stored)

		lg, err := reg.RestoreLeague(snap)
		if err != nil {
			return fmt.Errorf("league %s: %w", record.ID, err)
		}

		custody := snap.CashBalance
		for _, position := range snap.Positions {
			custody += position.AssetValue
		}
		if custody > 0 {
			bank.Mint(lg.Account(), custody)
		}
	}
	return nil
}

// Close releases owned resources.
func (b *Bootstrap) Close() error {
	if b == nil {
		return nil
	}
	return b.Store.Close()
}

// Run audits stored leagues on the configured interval until the context
// is cancelled.
func (b *Bootstrap) Run(ctx context.Context) error {
	interval := b.Config.AuditInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			results, err := AuditSolvency(ctx, b.Store)
			if err != nil {
				log.Printf("solvency audit: %v", err)
				continue
			}
			for _, result := range results {
				if !result.Solvent {
					log.Printf("league %s (%q) is insolvent: cash=%d vault=%d claimable=%d",
						result.LeagueID, result.Name, result.CashBalance,
						result.VaultValue, result.TotalClaimable)
				}
			}
		}
	}
}
