package ports

import "github.com/FocusTorn/pae/internal/core/domain/aliasconfig"

// ConfigProvider loads the alias configuration from wherever it lives.
type ConfigProvider interface {
	// Load returns the parsed configuration. Malformed entries are dropped and
	// recorded in Config.Issues; callers see them through Config.Validate.
	Load() (*aliasconfig.Config, error)

	// Source describes where the configuration was read from.
	Source() string
}
