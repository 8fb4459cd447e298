// Package contextflags selects the expandable-flag table for a target.
package contextflags

import (
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// Provider implements ports.ContextFlagProvider over the context-flags
// section of the alias config.
type Provider struct{}

// NewProvider creates a new Provider.
func NewProvider() ports.ContextFlagProvider {
	return &Provider{}
}

/*
GetContextAwareFlags returns the expandable-flags table with the entries of
context-flags for the target merged over it. The expanded target name is
looked up first and the shortcut as typed second, so a shortcut-specific
entry wins. The config itself is never modified.
*/
func (p *Provider) GetContextAwareFlags(cfg *aliasconfig.Config, target, expandedTarget string) expandable.Table {
	if cfg == nil {
		return expandable.Table{}
	}
	var overlays []expandable.Table
	if expandedTarget != "" {
		overlays = append(overlays, cfg.ContextFlags[expandedTarget])
	}
	if target != "" && target != expandedTarget {
		overlays = append(overlays, cfg.ContextFlags[target])
	}
	return cfg.ExpandableFlags.Merge(overlays...)
}
