package aliasconfig

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// ErrMalformed marks config entries whose shape does not match the alias
// schema. Such entries are dropped and reported through Config.Validate.
var ErrMalformed = errors.New("malformed alias config")

// Top-level sections of the alias config.
const (
	sectionScope               = "packageScope"
	sectionPackages            = "nxPackages"
	sectionTargets             = "nxTargets"
	sectionFeatureTargets      = "feature-nxTargets"
	sectionNotNxTargets        = "not-nxTargets"
	sectionExpandableCommands  = "expandable-commands"
	sectionExpandableFlags     = "expandable-flags"
	sectionInternalFlags       = "internal-flags"
	sectionEnvSettingFlags     = "env-setting-flags"
	sectionExpandableTemplates = "expandable-templates"
	sectionContextFlags        = "context-flags"
)

// converter turns a decoded document into the typed model, collecting every
// problem instead of stopping at the first.
type converter struct {
	issues []error
}

func (c *converter) fail(path string, format string, args ...any) {
	c.issues = append(c.issues, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

// fromTree converts a decoded YAML, JSON or TOML document read from source.
// Malformed entries are left out and recorded in Config.Issues.
func fromTree(source string, tree map[string]any) *aliasconfig.Config {
	cfg := aliasconfig.New()
	c := &converter{}

	if v, ok := tree[sectionScope]; ok {
		if s, ok := v.(string); ok && s != "" {
			cfg.PackageScope = s
		} else {
			c.fail(sectionScope, "expected a non-empty string")
		}
	}

	for token, v := range c.section(tree, sectionPackages) {
		if pkg, ok := c.packageEntry(sectionPackages+"."+token, v); ok {
			cfg.Packages[token] = pkg
		}
	}
	for token, v := range c.section(tree, sectionTargets) {
		if s, ok := c.str(sectionTargets+"."+token, v); ok {
			cfg.Targets[token] = s
		}
	}
	for token, v := range c.section(tree, sectionFeatureTargets) {
		if f, ok := c.featureEntry(sectionFeatureTargets+"."+token, v); ok {
			cfg.FeatureTargets[token] = f
		}
	}
	for token, v := range c.section(tree, sectionNotNxTargets) {
		if s, ok := c.str(sectionNotNxTargets+"."+token, v); ok {
			cfg.NotNxTargets[token] = s
		}
	}
	for token, v := range c.section(tree, sectionExpandableCommands) {
		if cmds, ok := c.commands(sectionExpandableCommands+"."+token, v); ok {
			cfg.ExpandableCommands[token] = cmds
		}
	}

	cfg.ExpandableFlags = c.table(tree, sectionExpandableFlags)
	cfg.InternalFlags = c.table(tree, sectionInternalFlags)
	cfg.EnvSettingFlags = c.table(tree, sectionEnvSettingFlags)
	cfg.ExpandableTemplates = c.table(tree, sectionExpandableTemplates)
	for target, v := range c.section(tree, sectionContextFlags) {
		path := sectionContextFlags + "." + target
		m, ok := v.(map[string]any)
		if !ok {
			c.fail(path, "expected a flag table")
			continue
		}
		cfg.ContextFlags[target] = c.flags(path, m)
	}

	if len(c.issues) > 0 {
		sort.Slice(c.issues, func(i, j int) bool { return c.issues[i].Error() < c.issues[j].Error() })
		cfg.Issues = append(cfg.Issues, fmt.Errorf("%s: %w: %w", source, ErrMalformed, errors.Join(c.issues...)))
	}
	return cfg
}

func (c *converter) section(tree map[string]any, name string) map[string]any {
	v, ok := tree[name]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(name, "expected a mapping, got %T", v)
		return nil
	}
	return m
}

func (c *converter) str(path string, v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		c.fail(path, "expected a string, got %T", v)
	}
	return s, ok
}

func (c *converter) packageEntry(path string, v any) (aliasconfig.PackageEntry, bool) {
	switch e := v.(type) {
	case string:
		return aliasconfig.PackageEntry{Name: e}, true
	case map[string]any:
		var pkg aliasconfig.PackageEntry
		pkg.Name, _ = e["name"].(string)
		pkg.Suffix, _ = e["suffix"].(string)
		if full, ok := e["full"]; ok {
			b, isBool := full.(bool)
			if !isBool {
				c.fail(path+".full", "expected a boolean, got %T", full)
			}
			pkg.Full = b
		}
		if variants, ok := e["variants"]; ok {
			list, ok := c.strings(path+".variants", variants)
			if !ok {
				return pkg, false
			}
			pkg.Variants = list
		}
		return pkg, true
	default:
		c.fail(path, "expected a package name or descriptor, got %T", v)
		return aliasconfig.PackageEntry{}, false
	}
}

func (c *converter) featureEntry(path string, v any) (aliasconfig.FeatureEntry, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "expected a mapping with run-target and run-from, got %T", v)
		return aliasconfig.FeatureEntry{}, false
	}
	var f aliasconfig.FeatureEntry
	f.RunTarget, _ = m["run-target"].(string)
	f.RunFrom, _ = m["run-from"].(string)
	if f.RunTarget == "" {
		c.fail(path, "run-target is required")
		return f, false
	}
	return f, true
}

func (c *converter) commands(path string, v any) ([]string, bool) {
	if s, ok := v.(string); ok {
		return []string{s}, true
	}
	return c.strings(path, v)
}

func (c *converter) strings(path string, v any) ([]string, bool) {
	items, ok := asList(v)
	if !ok {
		c.fail(path, "expected a list of strings, got %T", v)
		return nil, false
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			c.fail(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", item)
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func (c *converter) table(tree map[string]any, name string) expandable.Table {
	return c.flags(name, c.section(tree, name))
}

func (c *converter) flags(path string, m map[string]any) expandable.Table {
	table := make(expandable.Table, len(m))
	for key, v := range m {
		if value, ok := c.value(path+"."+key, v, true); ok {
			table[key] = value
		}
	}
	return table
}

/*
value converts one expandable value:

	string                                 -> Literal
	{template, position?, defaults?}       -> Single
	[{template, ...}, ...]                 -> Many
	{<shell>-template: ..., template: ...} -> PerShell

A mapping holding any "<shell>-template" key, or a "template" key that is not
a string, is a per-shell map.
*/
func (c *converter) value(path string, v any, allowPerShell bool) (expandable.Value, bool) {
	if s, ok := v.(string); ok {
		return expandable.Literal(s), true
	}
	if items, ok := asList(v); ok {
		many := make(expandable.Many, 0, len(items))
		for i, item := range items {
			obj, ok := c.templateObject(fmt.Sprintf("%s[%d]", path, i), item)
			if !ok {
				return nil, false
			}
			many = append(many, obj)
		}
		return many, true
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "expected a string, template object, list or per-shell map, got %T", v)
		return nil, false
	}

	if !isPerShell(m) {
		obj, ok := c.templateObject(path, m)
		return expandable.Single(obj), ok
	}
	if !allowPerShell {
		c.fail(path, "per-shell maps cannot be nested")
		return nil, false
	}
	perShell := make(expandable.PerShell, len(m))
	for key, variant := range m {
		if key != expandable.GenericTemplateKey && !strings.HasSuffix(key, "-template") {
			c.fail(path+"."+key, "unknown per-shell key")
			continue
		}
		if value, ok := c.value(path+"."+key, variant, false); ok {
			perShell[key] = value
		}
	}
	return perShell, true
}

func isPerShell(m map[string]any) bool {
	for key, v := range m {
		if strings.HasSuffix(key, "-template") {
			return true
		}
		if key == expandable.GenericTemplateKey {
			if _, isString := v.(string); !isString {
				return true
			}
		}
	}
	return false
}

func (c *converter) templateObject(path string, v any) (expandable.TemplateObject, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "expected a template object, got %T", v)
		return expandable.TemplateObject{}, false
	}

	var obj expandable.TemplateObject
	tmpl, ok := m["template"].(string)
	if !ok {
		c.fail(path, "template is required")
		return obj, false
	}
	obj.Template = tmpl

	if p, ok := m["position"]; ok {
		s, _ := p.(string)
		pos := expandable.Position(s)
		if !pos.Valid() {
			c.fail(path+".position", "unknown position %v", p)
			return obj, false
		}
		obj.Position = pos
	}

	if d, ok := m["defaults"]; ok {
		defaults, ok := d.(map[string]any)
		if !ok {
			c.fail(path+".defaults", "expected a mapping, got %T", d)
			return obj, false
		}
		obj.Defaults = make(map[string]string, len(defaults))
		for name, val := range defaults {
			obj.Defaults[name] = fmt.Sprint(val)
		}
	}
	return obj, true
}

// asList normalises the list shapes produced by the YAML, JSON and TOML decoders.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
