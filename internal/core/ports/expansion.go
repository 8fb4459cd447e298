package ports

import (
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/domain/resolution"
)

// ShellFragments are the start and end wrappers produced by a shell-specific template.
type ShellFragments struct {
	Start []string
	End   []string
}

// TemplateEngine substitutes variables into templates and assembles wrapped commands.
type TemplateEngine interface {
	ExpandTemplate(template string, vars map[string]string) string
	ProcessShellSpecificTemplate(value expandable.Value, vars map[string]string, shell expandable.ShellKind) ShellFragments
	ConstructWrappedCommand(base, start, end []string) []string
}

// FlagExpander routes CLI tokens into positioned fragments or remaining args.
type FlagExpander interface {
	ExpandFlags(args []string, table expandable.Table, shell expandable.ShellKind) expandable.ExpansionResult
}

// AliasResolver classifies alias tokens and resolves package targets.
type AliasResolver interface {
	Resolve(token string, cfg *aliasconfig.Config) resolution.Resolution
	ResolveTarget(pkg aliasconfig.PackageEntry, targetToken string, cfg *aliasconfig.Config) (resolution.Target, error)
}
