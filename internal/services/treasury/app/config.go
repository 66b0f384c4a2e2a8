// Package app wires the treasury service: configuration, bootstrap, and an
// operation layer that executes ledger mutations, traces them, and
// persists league snapshots after each success.
package app

import "time"

// Config holds treasury service configuration loaded from environment
// variables.
type Config struct {
	// DBPath locates the SQLite treasury store.
	DBPath string `env:"LEAGUEPOOL_DB_PATH" envDefault:"leaguepool.db"`
	// FeeBeneficiary receives season-creation fees.
	FeeBeneficiary string `env:"LEAGUEPOOL_FEE_BENEFICIARY" envDefault:"registry-fees"`
	// SeasonCreationFee is charged per created season.
	SeasonCreationFee uint64 `env:"LEAGUEPOOL_SEASON_CREATION_FEE" envDefault:"0"`
	// CertificateSecret signs reward certificates.
	CertificateSecret string `env:"LEAGUEPOOL_CERTIFICATE_SECRET,unset"`
	// AuditInterval spaces periodic solvency audits in serve mode.
	AuditInterval time.Duration `env:"LEAGUEPOOL_AUDIT_INTERVAL" envDefault:"1m"`
}
