/*
Package flagexpansion routes CLI tokens through expandable-flag tables into
positioned command fragments, and scans the tool's own env-setting and
internal flags out of the token stream.
*/
package flagexpansion

import (
	"strings"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/core/services/templating"
)

// ValueVar is the variable a captured --key=value is bound to.
const ValueVar = "value"

// Expander implements ports.FlagExpander on top of a TemplateEngine.
type Expander struct {
	engine ports.TemplateEngine
}

// NewExpander creates a new Expander.
// It panics if engine is nil.
func NewExpander(engine ports.TemplateEngine) ports.FlagExpander {
	if engine == nil {
		panic("template engine cannot be nil")
	}
	return &Expander{engine: engine}
}

/*
ExpandFlags walks args left to right. A token whose parsed key is in table is
replaced by its expansion, appended to the bucket of each fragment's position
(suffix when none is declared). Everything else, including all tokens after a
literal "--", goes to RemainingArgs in its original order.
*/
func (x *Expander) ExpandFlags(args []string, table expandable.Table, shell expandable.ShellKind) expandable.ExpansionResult {
	var result expandable.ExpansionResult
	passthrough := false

	for _, token := range args {
		if passthrough {
			result.RemainingArgs = append(result.RemainingArgs, token)
			continue
		}
		if token == "--" {
			passthrough = true
			result.RemainingArgs = append(result.RemainingArgs, token)
			continue
		}

		flag, ok := ParseExpandableFlag(token)
		if !ok {
			result.RemainingArgs = append(result.RemainingArgs, token)
			continue
		}
		value, found := table[flag.Key]
		if !found || value == nil {
			result.RemainingArgs = append(result.RemainingArgs, token)
			continue
		}
		x.expandValue(&result, value, flag, shell)
	}
	return result
}

func (x *Expander) expandValue(result *expandable.ExpansionResult, value expandable.Value, flag ParsedFlag, shell expandable.ShellKind) {
	selected := value
	if perShell, ok := value.(expandable.PerShell); ok {
		selected = perShell.Select(shell)
	}

	switch v := selected.(type) {
	case nil:
	case expandable.Literal:
		x.expandLiteral(result, string(v), flag)
	case expandable.Single:
		x.expandObject(result, expandable.TemplateObject(v), flag, shell)
	case expandable.Many:
		for _, obj := range v {
			x.expandObject(result, obj, flag, shell)
		}
	case expandable.PerShell:
	}
}

// expandLiteral places a literal in the suffix bucket. A captured value is
// substituted into {value}, or appended as "=value" when the literal has no
// placeholder for it.
func (x *Expander) expandLiteral(result *expandable.ExpansionResult, literal string, flag ParsedFlag) {
	fragment := literal
	if flag.HasValue {
		if strings.Contains(literal, "{"+ValueVar+"}") {
			fragment = x.engine.ExpandTemplate(literal, map[string]string{ValueVar: flag.Value})
		} else {
			fragment = literal + "=" + flag.Value
		}
	}
	if fragment != "" {
		result.Add(expandable.PositionSuffix, fragment)
	}
}

func (x *Expander) expandObject(result *expandable.ExpansionResult, obj expandable.TemplateObject, flag ParsedFlag, shell expandable.ShellKind) {
	vars := capturedVars(obj, flag)

	switch obj.Position {
	case expandable.PositionStart, expandable.PositionEnd:
		wrappers := x.engine.ProcessShellSpecificTemplate(expandable.Single(obj), vars, shell)
		result.Start = append(result.Start, wrappers.Start...)
		result.End = append(result.End, wrappers.End...)
	default:
		fragment := x.engine.ExpandTemplate(obj.Template, templating.MergeVars(obj.Defaults, vars))
		if fragment != "" {
			result.Add(obj.Position, fragment)
		}
	}
}

// capturedVars binds a captured --key=value to ValueVar and, when the
// template declares exactly one default, to that default's name as well.
func capturedVars(obj expandable.TemplateObject, flag ParsedFlag) map[string]string {
	if !flag.HasValue {
		return nil
	}
	vars := map[string]string{ValueVar: flag.Value}
	if len(obj.Defaults) == 1 {
		for name := range obj.Defaults {
			vars[name] = flag.Value
		}
	}
	return vars
}
