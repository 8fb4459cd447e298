package ports

import "github.com/FocusTorn/pae/internal/core/domain/alias"

// InstallResult reports what an install or refresh did.
type InstallResult struct {
	ScriptPath string
	Added      []string
	Existing   []string
	Skipped    []string // tokens not usable as shell aliases
}

// AliasManagementService backs the reserved install/remove/refresh/load verbs.
type AliasManagementService interface {
	// InstallAliases writes shell aliases for every configured token,
	// keeping ones already installed.
	InstallAliases() (InstallResult, error)

	// RefreshAliases regenerates the script from scratch.
	RefreshAliases() (InstallResult, error)

	// RemoveAliases deletes the generated script.
	RemoveAliases() error

	// LoadScript returns the script text for eval-style loading.
	LoadScript() (string, error)

	// ListAliases returns the shell aliases that would be generated.
	ListAliases() ([]alias.Alias, error)
}
