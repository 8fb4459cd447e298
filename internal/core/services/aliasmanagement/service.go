/*
Package aliasmanagement backs the reserved install, remove, refresh and load
verbs: it turns every configured alias token into a shell alias running
"pae <token>" and keeps the generated shell script in sync with the config.
*/
package aliasmanagement

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// ErrNoAliases is returned by install and refresh when the config defines no
// alias that can be declared in a shell.
var ErrNoAliases = errors.New("no installable aliases in config")

// Program is the command every generated alias invokes.
const Program = "pae"

type service struct {
	config  ports.ConfigProvider
	scripts ports.ShellIntegration
	shell   ports.ShellDetector
	env     ports.EnvironmentSink
}

// NewService creates a new alias management service.
// It panics if any collaborator is nil.
func NewService(
	config ports.ConfigProvider,
	scripts ports.ShellIntegration,
	shell ports.ShellDetector,
	env ports.EnvironmentSink,
) ports.AliasManagementService {
	if config == nil {
		panic("config provider cannot be nil")
	}
	if scripts == nil {
		panic("shell integration cannot be nil")
	}
	if shell == nil {
		panic("shell detector cannot be nil")
	}
	if env == nil {
		panic("environment sink cannot be nil")
	}
	return &service{config: config, scripts: scripts, shell: shell, env: env}
}

// InstallAliases adds aliases for every configured token, keeping aliases
// already present in the script even when the config no longer has them.
func (s *service) InstallAliases() (ports.InstallResult, error) {
	return s.write(false)
}

// RefreshAliases regenerates the script from the config alone.
func (s *service) RefreshAliases() (ports.InstallResult, error) {
	return s.write(true)
}

// RemoveAliases deletes the generated script for the current shell.
func (s *service) RemoveAliases() error {
	if err := s.scripts.RemoveAliases(s.shell.DetectShellType()); err != nil {
		return fmt.Errorf("failed to remove aliases: %w", err)
	}
	return nil
}

// LoadScript renders the script for the current shell without writing it.
func (s *service) LoadScript() (string, error) {
	aliases, _, err := s.desired()
	if err != nil {
		return "", err
	}
	return s.scripts.RenderScript(s.shell.DetectShellType(), aliases), nil
}

// ListAliases returns the aliases that install would write.
func (s *service) ListAliases() ([]alias.Alias, error) {
	aliases, _, err := s.desired()
	return aliases, err
}

func (s *service) write(replace bool) (ports.InstallResult, error) {
	var result ports.InstallResult

	aliases, skipped, err := s.desired()
	if err != nil {
		return result, err
	}
	result.Skipped = skipped
	if len(aliases) == 0 {
		return result, ErrNoAliases
	}

	effects := command.EnvironmentEffects{}
	effects.Set(command.EnvInstalling, "1")
	if err := s.env.Apply(effects); err != nil {
		return result, fmt.Errorf("failed to mark installation: %w", err)
	}
	defer func() {
		done := command.EnvironmentEffects{}
		done.Set(command.EnvInstalling, "")
		_ = s.env.Apply(done)
	}()

	shell := s.shell.DetectShellType()
	installed, err := s.scripts.GetInstalledAliases(shell)
	if err != nil {
		return result, fmt.Errorf("failed to read installed aliases: %w", err)
	}

	wanted := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		wanted[a.Name] = true
		if cmd, ok := installed[a.Name]; ok && cmd == a.Command {
			result.Existing = append(result.Existing, a.Name)
			continue
		}
		result.Added = append(result.Added, a.Name)
	}
	if !replace {
		for _, name := range sortedNames(installed) {
			if !wanted[name] {
				aliases = append(aliases, alias.Alias{Name: name, Command: installed[name]})
			}
		}
	}

	path, err := s.scripts.WriteAliases(shell, aliases)
	if err != nil {
		return result, fmt.Errorf("failed to write aliases: %w", err)
	}
	result.ScriptPath = path
	return result, nil
}

// desired builds one alias per package, not-nx and expandable-command token,
// sorted by name, and the tokens that cannot be shell alias names.
func (s *service) desired() ([]alias.Alias, []string, error) {
	cfg, err := s.config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load alias config: %w", err)
	}

	tokens := map[string]bool{}
	for token := range cfg.Packages {
		tokens[token] = true
	}
	for token := range cfg.NotNxTargets {
		tokens[token] = true
	}
	for token := range cfg.ExpandableCommands {
		tokens[token] = true
	}

	var aliases []alias.Alias
	var skipped []string
	for _, token := range sortedNames(tokens) {
		if aliasconfig.IsReserved(token) || !alias.IsValidName(token) {
			skipped = append(skipped, token)
			continue
		}
		aliases = append(aliases, alias.Alias{Name: token, Command: Program + " " + token})
	}
	return aliases, skipped, nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
