/*
Package resolution holds the outcome of classifying an alias token and of
resolving a package alias plus target shortcut into an Nx project and target.
*/
package resolution

import "github.com/FocusTorn/pae/internal/core/domain/aliasconfig"

// Type classifies an alias token.
type Type string

const (
	TypeReserved   Type = "reserved"
	TypeExpandable Type = "expandable"
	TypePackage    Type = "package"
	TypeFeature    Type = "feature"
	TypeNotNx      Type = "notNx"
	TypeUnknown    Type = "unknown"
)

// Resolution is the result of resolving one alias token.
type Resolution struct {
	Type     Type
	Token    string
	Commands []string                  // literal shell commands for expandable and notNx aliases
	Package  *aliasconfig.PackageEntry // set for package and feature aliases
}

// Package is a resolved Nx project for one invocation.
type Package struct {
	PackageName string // base name from the config, e.g. "dynamicons"
	FullName    string // scoped name, e.g. "@fux/dynamicons-ext"
	Project     string // name passed to "nx run"
	Variant     string
	IsFull      bool
}

// Target is a resolved Nx target for a package.
type Target struct {
	Package  Package
	Token    string // what the user typed, e.g. "b"
	Expanded string // canonical target name, e.g. "build"
}

// ProjectTarget renders "<project>:<target>".
func (t Target) ProjectTarget() string {
	return t.Package.Project + ":" + t.Expanded
}
