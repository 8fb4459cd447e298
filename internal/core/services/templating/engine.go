/*
Package templating substitutes {name} variables into template strings,
selects shell-specific template variants and assembles wrapped commands.
Nothing in this package returns an error: malformed input degrades to being
left as it is.
*/
package templating

import (
	"regexp"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// Engine implements ports.TemplateEngine.
type Engine struct {
	// Matches {name} placeholders. Anything else, including unbalanced
	// braces, is never touched.
	placeholder *regexp.Regexp
}

// NewEngine creates a new template Engine.
func NewEngine() ports.TemplateEngine {
	return &Engine{
		placeholder: regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.-]*)\}`),
	}
}

// ExpandTemplate replaces every {name} whose name is in vars. Unknown names
// stay verbatim so a partially filled template is still readable; an empty
// value substitutes as the empty string.
func (e *Engine) ExpandTemplate(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	return e.placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

/*
ProcessShellSpecificTemplate expands the variant of value meant for shell into
start and end wrapper fragments.

A PerShell value is narrowed to "<shell>-template", then "template"; with
neither present the result is empty. Template objects are expanded with their
defaults under vars (vars win) and routed by position: end goes to End, start
or no position goes to Start. Prefix, preArgs and suffix belong to flag
expansion and are ignored here.
*/
func (e *Engine) ProcessShellSpecificTemplate(value expandable.Value, vars map[string]string, shell expandable.ShellKind) ports.ShellFragments {
	var out ports.ShellFragments

	selected := value
	if perShell, ok := value.(expandable.PerShell); ok {
		selected = perShell.Select(shell)
	}

	switch v := selected.(type) {
	case nil:
	case expandable.Literal:
		if s := e.ExpandTemplate(string(v), vars); s != "" {
			out.Start = append(out.Start, s)
		}
	case expandable.Single:
		e.appendWrapper(&out, expandable.TemplateObject(v), vars)
	case expandable.Many:
		for _, obj := range v {
			e.appendWrapper(&out, obj, vars)
		}
	case expandable.PerShell:
		// A per-shell map nested in a per-shell map has no meaning.
	}
	return out
}

func (e *Engine) appendWrapper(out *ports.ShellFragments, obj expandable.TemplateObject, vars map[string]string) {
	s := e.ExpandTemplate(obj.Template, MergeVars(obj.Defaults, vars))
	if s == "" {
		return
	}
	switch obj.Position {
	case expandable.PositionEnd:
		out.End = append(out.End, s)
	case expandable.PositionStart, "":
		out.Start = append(out.Start, s)
	}
}

// ConstructWrappedCommand returns start + base + end. Empty fragments are
// dropped, so empty wrappers leave base unchanged.
func (e *Engine) ConstructWrappedCommand(base, start, end []string) []string {
	wrapped := make([]string, 0, len(start)+len(base)+len(end))
	wrapped = appendNonEmpty(wrapped, start)
	wrapped = append(wrapped, base...)
	wrapped = appendNonEmpty(wrapped, end)
	return wrapped
}

// MergeVars merges variable sets into a new map. Later sets override earlier ones.
func MergeVars(sets ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, set := range sets {
		for k, v := range set {
			merged[k] = v
		}
	}
	return merged
}

func appendNonEmpty(dst, fragments []string) []string {
	for _, f := range fragments {
		if f != "" {
			dst = append(dst, f)
		}
	}
	return dst
}
