// Package config provides shared configuration helpers for service commands.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from environment variables using its `env` struct
// tags. Fields keep their envDefault values when the variable is unset.
func ParseEnv(target any) error {
	if target == nil {
		return fmt.Errorf("parse env: target is required")
	}
	if err := env.ParseWithOptions(target, env.Options{}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
