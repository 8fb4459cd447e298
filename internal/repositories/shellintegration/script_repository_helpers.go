package shellintegration

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// parseFunc extracts an alias from one script line.
type parseFunc func(line string) (name, command string, isAlias bool)

func lineParser(shell expandable.ShellKind) parseFunc {
	switch shell {
	case expandable.ShellPwsh:
		return parsePwshFunctionLine
	case expandable.ShellCmd:
		return parseDoskeyLine
	default:
		return parseAliasLineFromString
	}
}

func getAliasesFromFile(filePath string, parse parseFunc) (map[string]string, error) {
	aliases := make(map[string]string)
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return aliases, nil
		}
		return nil, fmt.Errorf("failed to open alias file %s: %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, command, isAlias := parse(scanner.Text())
		if isAlias {
			aliases[name] = command
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning alias file %s: %w", filePath, err)
	}
	return aliases, nil
}

// parseAliasLineFromString parses a POSIX "alias name='command'" line.
func parseAliasLineFromString(line string) (name string, command string, isAlias bool) {
	trimmedLine := strings.TrimSpace(line)
	if strings.HasPrefix(trimmedLine, "#") || !strings.HasPrefix(trimmedLine, "alias ") {
		return "", "", false
	}

	parts := strings.SplitN(strings.TrimPrefix(trimmedLine, "alias "), "=", 2)
	if len(parts) < 2 {
		return "", "", false
	}
	name = strings.TrimSpace(parts[0])
	return name, unquote(strings.TrimSpace(parts[1])), true
}

// parsePwshFunctionLine parses a "function name { command @args }" line.
func parsePwshFunctionLine(line string) (name string, command string, isAlias bool) {
	trimmedLine := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmedLine, "function ") || !strings.HasSuffix(trimmedLine, "}") {
		return "", "", false
	}

	content := strings.TrimPrefix(trimmedLine, "function ")
	open := strings.Index(content, "{")
	if open < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(content[:open])
	body := strings.TrimSpace(strings.TrimSuffix(content[open+1:], "}"))
	body = strings.TrimSpace(strings.TrimSuffix(body, "@args"))
	return name, body, name != ""
}

// parseDoskeyLine parses a "doskey name=command $*" line.
func parseDoskeyLine(line string) (name string, command string, isAlias bool) {
	trimmedLine := strings.TrimSpace(line)
	if !strings.HasPrefix(strings.ToLower(trimmedLine), "doskey ") {
		return "", "", false
	}

	parts := strings.SplitN(trimmedLine[len("doskey "):], "=", 2)
	if len(parts) < 2 {
		return "", "", false
	}
	name = strings.TrimSpace(parts[0])
	command = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[1]), "$*"))
	return name, command, name != ""
}

// unquote strips one pair of matching quotes and undoes the '\'' escape.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	switch {
	case first == '\'' && last == '\'':
		return strings.ReplaceAll(value[1:len(value)-1], `'\''`, "'")
	case first == '"' && last == '"':
		return value[1 : len(value)-1]
	}
	return value
}

func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (r *ScriptRepository) toUserFriendlyPath(absPath string) string {
	if r.homeDir == "" || !strings.HasPrefix(absPath, r.homeDir) {
		return absPath
	}
	if absPath == r.homeDir {
		return "~"
	}
	return filepath.Join("~", strings.TrimPrefix(absPath, r.homeDir+string(os.PathSeparator)))
}
