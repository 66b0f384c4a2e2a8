// Package treasury parses treasury command flags and starts the service
// runtime.
package treasury

import (
	"context"
	"flag"
	"fmt"
	"os"

	entrypoint "github.com/louisbranch/leaguepool/internal/platform/cmd"
	"github.com/louisbranch/leaguepool/internal/services/treasury/app"
)

// Config holds treasury command configuration.
type Config struct {
	App app.Config
	// AuditOnly runs a single solvency audit pass and exits.
	AuditOnly bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg.App); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.App.DBPath, "db", cfg.App.DBPath, "Path to the treasury SQLite database")
	fs.StringVar(&cfg.App.FeeBeneficiary, "fee-beneficiary", cfg.App.FeeBeneficiary, "Account credited with season-creation fees")
	fs.Uint64Var(&cfg.App.SeasonCreationFee, "season-fee", cfg.App.SeasonCreationFee, "Fee charged when a league opens a new season")
	fs.DurationVar(&cfg.App.AuditInterval, "audit-interval", cfg.App.AuditInterval, "Interval between solvency audits")
	fs.BoolVar(&cfg.AuditOnly, "audit", cfg.AuditOnly, "Run one solvency audit pass and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the treasury service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTreasury, func(ctx context.Context) error {
		boot, err := app.NewBootstrap(cfg.App)
		if err != nil {
			return err
		}
		defer boot.Close()

		if cfg.AuditOnly {
			results, err := app.AuditSolvency(ctx, boot.Store)
			if err != nil {
				return fmt.Errorf("solvency audit: %w", err)
			}
			return app.WriteAuditReport(os.Stdout, results)
		}
		return boot.Run(ctx)
	})
}
