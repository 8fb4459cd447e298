package flagexpansion

import "strings"

// ParsedFlag is a flag token split into its table key and optional value.
type ParsedFlag struct {
	Key      string
	Value    string
	HasValue bool
}

/*
ParseExpandableFlag splits a flag token into a table key and value.

	-x            -> key "x"
	-x=v          -> key "x", value "v"
	--name        -> key "-name"
	--name=value  -> key "-name", value "value"

A double-dash flag keeps one leading dash in its key so long flags never
collide with single-letter keys. Bare "-", "--" and tokens not starting with a
dash are not flags.
*/
func ParseExpandableFlag(token string) (ParsedFlag, bool) {
	if len(token) < 2 || token[0] != '-' || token == "--" {
		return ParsedFlag{}, false
	}

	body := token[1:]
	if strings.HasPrefix(token, "--") {
		body = token[2:]
	}

	name, value, hasValue := strings.Cut(body, "=")
	if name == "" {
		return ParsedFlag{}, false
	}
	if strings.HasPrefix(token, "--") {
		name = "-" + name
	}
	return ParsedFlag{Key: name, Value: value, HasValue: hasValue}, true
}
