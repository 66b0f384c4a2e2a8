// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed treasury/*.sql
var TreasuryFS embed.FS
