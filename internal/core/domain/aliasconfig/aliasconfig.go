/*
Package aliasconfig defines the parsed alias configuration: package aliases,
target shortcuts, literal commands and the expandable flag tables. A Config is
produced by a loader and consumed read-only by the core services.
*/
package aliasconfig

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// DefaultPackageScope is used for full package names when the config sets none.
const DefaultPackageScope = "@fux"

// ErrConfigInvalid marks shape or disjointness violations found by Validate.
var ErrConfigInvalid = errors.New("invalid alias configuration")

// ReservedCommands are CLI verbs that can never be used as aliases.
var ReservedCommands = []string{"help", "install", "remove", "refresh", "load"}

// IsReserved reports whether token is a reserved CLI verb.
func IsReserved(token string) bool {
	for _, r := range ReservedCommands {
		if r == token {
			return true
		}
	}
	return false
}

// PackageEntry describes the Nx project an alias points at.
type PackageEntry struct {
	Name     string
	Suffix   string // "core", "ext" or empty
	Full     bool
	Variants []string
}

// IsFeature reports whether the package is split into variants and needs a
// feature target to pick one.
func (p PackageEntry) IsFeature() bool {
	return len(p.Variants) > 0
}

// FeatureEntry maps a target shortcut to a target run from one package variant.
type FeatureEntry struct {
	RunTarget string
	RunFrom   string
}

// Config is the whole alias configuration.
type Config struct {
	PackageScope        string
	Packages            map[string]PackageEntry
	Targets             map[string]string
	FeatureTargets      map[string]FeatureEntry
	NotNxTargets        map[string]string
	ExpandableCommands  map[string][]string
	ExpandableFlags     expandable.Table
	InternalFlags       expandable.Table
	EnvSettingFlags     expandable.Table
	ExpandableTemplates expandable.Table
	ContextFlags        map[string]expandable.Table

	// Issues are problems found while loading; the offending entries were dropped.
	Issues []error
}

// New returns an empty config with every map initialised.
func New() *Config {
	return &Config{
		PackageScope:        DefaultPackageScope,
		Packages:            map[string]PackageEntry{},
		Targets:             map[string]string{},
		FeatureTargets:      map[string]FeatureEntry{},
		NotNxTargets:        map[string]string{},
		ExpandableCommands:  map[string][]string{},
		ExpandableFlags:     expandable.Table{},
		InternalFlags:       expandable.Table{},
		EnvSettingFlags:     expandable.Table{},
		ExpandableTemplates: expandable.Table{},
		ContextFlags:        map[string]expandable.Table{},
	}
}

// Scope returns the package scope, defaulting to DefaultPackageScope.
func (c *Config) Scope() string {
	if c.PackageScope == "" {
		return DefaultPackageScope
	}
	return c.PackageScope
}

// Category groups alias tokens for display when a token cannot be resolved.
type Category struct {
	Name    string
	Entries map[string]string
}

// Categories returns the distinct alias categories with token → description.
// Empty categories are omitted.
func (c *Config) Categories() []Category {
	var cats []Category

	pkgs := make(map[string]string, len(c.Packages))
	features := make(map[string]string)
	for token, p := range c.Packages {
		if p.IsFeature() {
			features[token] = p.Name
			continue
		}
		pkgs[token] = p.Name
	}
	if len(pkgs) > 0 {
		cats = append(cats, Category{Name: "Packages", Entries: pkgs})
	}
	if len(features) > 0 {
		cats = append(cats, Category{Name: "Features", Entries: features})
	}
	if len(c.NotNxTargets) > 0 {
		cats = append(cats, Category{Name: "Not-Nx commands", Entries: copyMap(c.NotNxTargets)})
	}
	if len(c.ExpandableCommands) > 0 {
		cmds := make(map[string]string, len(c.ExpandableCommands))
		for token, list := range c.ExpandableCommands {
			cmds[token] = joinCommands(list)
		}
		cats = append(cats, Category{Name: "Expandable commands", Entries: cmds})
	}
	return cats
}

// Validate checks the disjointness invariants. It returns nil or an error
// wrapping ErrConfigInvalid that joins every issue found, load issues first.
func (c *Config) Validate() error {
	issues := append([]error(nil), c.Issues...)

	owner := map[string]string{}
	claim := func(token, table string) {
		if prev, ok := owner[token]; ok {
			issues = append(issues, fmt.Errorf("alias %q is defined in both %s and %s", token, prev, table))
			return
		}
		owner[token] = table
	}
	for _, r := range ReservedCommands {
		owner[r] = "reserved commands"
	}
	for _, token := range sortedKeys(c.ExpandableCommands) {
		claim(token, "expandable-commands")
	}
	for _, token := range sortedKeys(c.Packages) {
		claim(token, "nxPackages")
	}
	for _, token := range sortedKeys(c.NotNxTargets) {
		claim(token, "not-nxTargets")
	}
	for _, token := range sortedKeys(c.FeatureTargets) {
		if _, ok := c.Packages[token]; ok {
			issues = append(issues, fmt.Errorf("feature target %q collides with a package alias", token))
		}
	}

	for _, token := range sortedKeys(c.Packages) {
		p := c.Packages[token]
		if p.Name == "" {
			issues = append(issues, fmt.Errorf("package alias %q has no name", token))
		}
		if p.Suffix != "" && p.Suffix != "core" && p.Suffix != "ext" {
			issues = append(issues, fmt.Errorf("package alias %q has unknown suffix %q", token, p.Suffix))
		}
	}
	for _, token := range sortedKeys(c.ExpandableCommands) {
		if len(c.ExpandableCommands[token]) == 0 {
			issues = append(issues, fmt.Errorf("expandable command %q is empty", token))
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfigInvalid, errors.Join(issues...))
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func joinCommands(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}
	out := list[0]
	for _, c := range list[1:] {
		out += " & " + c
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
