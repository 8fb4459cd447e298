/*
Package expandable defines the template-bearing configuration values that
expand into command fragments, together with the positions and shell kinds
they are keyed by.
*/
package expandable

// Position is the bucket an expanded fragment is placed into when the final
// command line is assembled.
type Position string

const (
	PositionStart   Position = "start"
	PositionPrefix  Position = "prefix"
	PositionPreArgs Position = "preArgs"
	PositionSuffix  Position = "suffix"
	PositionEnd     Position = "end"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionStart, PositionPrefix, PositionPreArgs, PositionSuffix, PositionEnd:
		return true
	}
	return false
}

// ShellKind identifies the shell the final command is rendered for.
type ShellKind string

const (
	ShellPwsh  ShellKind = "pwsh"
	ShellLinux ShellKind = "linux"
	ShellCmd   ShellKind = "cmd"
)

// Per-shell variant keys.
const (
	GenericTemplateKey = "template"
	templateKeySuffix  = "-template"
)

// TemplateKey returns the per-shell key for the shell, e.g. "pwsh-template".
func (s ShellKind) TemplateKey() string {
	return string(s) + templateKeySuffix
}

// TemplateObject is a single positioned template with optional variable defaults.
type TemplateObject struct {
	Position Position
	Template string
	Defaults map[string]string
}

/*
Value is an expandable configuration value. It is a closed sum type:
Literal, Single, Many or PerShell. Consumers switch over the concrete type.
*/
type Value interface {
	isExpandableValue()
}

// Literal is a plain replacement string.
type Literal string

// Single is one positioned template.
type Single TemplateObject

// Many is an ordered list of positioned templates.
type Many []TemplateObject

// PerShell maps variant keys ("pwsh-template", "linux-template",
// "cmd-template", "template") to a non-PerShell value.
type PerShell map[string]Value

func (Literal) isExpandableValue()  {}
func (Single) isExpandableValue()   {}
func (Many) isExpandableValue()     {}
func (PerShell) isExpandableValue() {}

// Select picks the variant for shell, falling back to the generic "template"
// key. It returns nil when neither key is present.
func (p PerShell) Select(shell ShellKind) Value {
	if v, ok := p[shell.TemplateKey()]; ok && v != nil {
		return v
	}
	if v, ok := p[GenericTemplateKey]; ok && v != nil {
		return v
	}
	return nil
}

// Table maps a flag key (as produced by flag parsing) to its expandable value.
type Table map[string]Value

// Merge returns a new table holding t's entries overridden by each of the
// others in order. Later tables win.
func (t Table) Merge(others ...Table) Table {
	merged := make(Table, len(t))
	for k, v := range t {
		merged[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}

// ExpansionResult holds the fragments produced by flag expansion, bucketed by
// position, and the tokens no flag matched.
type ExpansionResult struct {
	Start         []string
	Prefix        []string
	PreArgs       []string
	Suffix        []string
	End           []string
	RemainingArgs []string
}

// Add appends fragment to the bucket for pos. Unknown positions land in Suffix.
func (r *ExpansionResult) Add(pos Position, fragment string) {
	switch pos {
	case PositionStart:
		r.Start = append(r.Start, fragment)
	case PositionPrefix:
		r.Prefix = append(r.Prefix, fragment)
	case PositionPreArgs:
		r.PreArgs = append(r.PreArgs, fragment)
	case PositionEnd:
		r.End = append(r.End, fragment)
	default:
		r.Suffix = append(r.Suffix, fragment)
	}
}

// Fragments returns every expanded fragment in bucket order, excluding
// RemainingArgs.
func (r ExpansionResult) Fragments() []string {
	out := make([]string, 0, len(r.Start)+len(r.Prefix)+len(r.PreArgs)+len(r.Suffix)+len(r.End))
	out = append(out, r.Start...)
	out = append(out, r.Prefix...)
	out = append(out, r.PreArgs...)
	out = append(out, r.Suffix...)
	out = append(out, r.End...)
	return out
}
