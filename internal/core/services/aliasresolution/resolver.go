/*
Package aliasresolution classifies alias tokens against the alias
configuration and resolves package aliases plus target shortcuts into Nx
projects and targets. Everything here is a pure function of its inputs.
*/
package aliasresolution

import (
	"errors"
	"fmt"
	"slices"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/resolution"
	"github.com/FocusTorn/pae/internal/core/ports"
)

var (
	// ErrUnknownAlias marks a token that matches no configured alias.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrMissingTarget marks a package alias invoked without a target.
	ErrMissingTarget = errors.New("missing target")
	// ErrUnknownVariant marks a feature target whose run-from variant the
	// package does not declare.
	ErrUnknownVariant = errors.New("unknown package variant")
)

// Resolver implements ports.AliasResolver.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() ports.AliasResolver {
	return &Resolver{}
}

// Resolve classifies token. Lookup order is reserved verbs, then
// expandable-commands, nxPackages and not-nxTargets; the first match wins.
func (r *Resolver) Resolve(token string, cfg *aliasconfig.Config) resolution.Resolution {
	res := resolution.Resolution{Type: resolution.TypeUnknown, Token: token}
	if token == "" || cfg == nil {
		return res
	}

	if aliasconfig.IsReserved(token) {
		res.Type = resolution.TypeReserved
		return res
	}
	if cmds, ok := cfg.ExpandableCommands[token]; ok && len(cmds) > 0 {
		res.Type = resolution.TypeExpandable
		res.Commands = slices.Clone(cmds)
		return res
	}
	if pkg, ok := cfg.Packages[token]; ok {
		res.Type = resolution.TypePackage
		if pkg.IsFeature() {
			res.Type = resolution.TypeFeature
		}
		res.Package = &pkg
		return res
	}
	if cmd, ok := cfg.NotNxTargets[token]; ok {
		res.Type = resolution.TypeNotNx
		res.Commands = []string{cmd}
		return res
	}
	return res
}

/*
ResolveTarget maps a target shortcut for pkg to an Nx project and target.

Plain packages translate the shortcut through nxTargets; a token with no
mapping is used as the target name verbatim. Packages declaring variants look
the shortcut up in feature-nxTargets and run its run-target from its run-from
variant. Without a feature entry the first declared variant is used and the
shortcut goes through nxTargets as for plain packages.
*/
func (r *Resolver) ResolveTarget(pkg aliasconfig.PackageEntry, targetToken string, cfg *aliasconfig.Config) (resolution.Target, error) {
	if targetToken == "" {
		return resolution.Target{}, fmt.Errorf("%w for package %q", ErrMissingTarget, pkg.Name)
	}
	if cfg == nil {
		cfg = aliasconfig.New()
	}

	if !pkg.IsFeature() {
		return resolution.Target{
			Package:  packageFor(pkg, pkg.Suffix, "", cfg.Scope()),
			Token:    targetToken,
			Expanded: mapTarget(targetToken, cfg),
		}, nil
	}

	variant := pkg.Variants[0]
	expanded := mapTarget(targetToken, cfg)
	if feature, ok := cfg.FeatureTargets[targetToken]; ok {
		if feature.RunFrom != "" {
			if !slices.Contains(pkg.Variants, feature.RunFrom) {
				return resolution.Target{}, fmt.Errorf("%w: %q is not a variant of %q (have %v)",
					ErrUnknownVariant, feature.RunFrom, pkg.Name, pkg.Variants)
			}
			variant = feature.RunFrom
		}
		if feature.RunTarget != "" {
			expanded = feature.RunTarget
		}
	}

	return resolution.Target{
		Package:  packageFor(pkg, variant, variant, cfg.Scope()),
		Token:    targetToken,
		Expanded: expanded,
	}, nil
}

func mapTarget(token string, cfg *aliasconfig.Config) string {
	if t, ok := cfg.Targets[token]; ok && t != "" {
		return t
	}
	return token
}

// packageFor builds the project for pkg, with suffix appended to the base name.
func packageFor(pkg aliasconfig.PackageEntry, suffix, variant, scope string) resolution.Package {
	base := pkg.Name
	if suffix != "" {
		base += "-" + suffix
	}
	full := scope + "/" + base

	project := base
	if pkg.Full {
		project = full
	}
	return resolution.Package{
		PackageName: pkg.Name,
		FullName:    full,
		Project:     project,
		Variant:     variant,
		IsFull:      pkg.Full,
	}
}
