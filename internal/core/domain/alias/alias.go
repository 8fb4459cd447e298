/*
Package alias defines the shell alias written into generated shell
integration scripts for each configured alias token.
*/
package alias

import "regexp"

/*
Alias is one shell-level alias: Name is the token the user types in the
shell and Command is what the shell runs for it (normally "pae <token>").
*/
type Alias struct {
	Command string
	Name    string
}

// Alias names may only contain letters, digits, dots, dashes and underscores,
// and must not start with a dash.
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._][a-zA-Z0-9._-]*$`)

// IsValidName reports whether name can be declared as an alias in every
// supported shell.
func IsValidName(name string) bool {
	return validNameRegex.MatchString(name)
}
