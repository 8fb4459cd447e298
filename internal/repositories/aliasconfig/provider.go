/*
Package aliasconfig finds and decodes the alias configuration file. YAML, JSON
and TOML files share one schema; they are decoded into a generic document and
converted into the domain model.
*/
package aliasconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// ErrNotFound is returned when no config file exists in any searched location.
var ErrNotFound = errors.New("alias config not found")

// FileNames are looked for, in order, in every directory from the working
// directory up to the filesystem root.
var FileNames = []string{
	"pae.config.yaml",
	"pae.config.yml",
	"pae.config.json",
	"pae.config.toml",
	".pae.yaml",
}

// HomeConfig is the fallback location under the user's home directory.
const HomeConfig = ".pae/config.yaml"

// FileProvider implements ports.ConfigProvider by reading a config file.
type FileProvider struct {
	explicit string
	startDir string
	homeDir  string
	found    string
}

// NewFileProvider creates a FileProvider. A non-empty explicitPath is used as
// is; otherwise the file is discovered from startDir upwards, then in homeDir.
func NewFileProvider(explicitPath, startDir, homeDir string) ports.ConfigProvider {
	return &FileProvider{explicit: explicitPath, startDir: startDir, homeDir: homeDir}
}

// NewDefaultProvider creates a FileProvider searching from the working
// directory and the user's home.
func NewDefaultProvider(explicitPath string) (ports.ConfigProvider, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return NewFileProvider(explicitPath, wd, home), nil
}

// Load locates, reads and decodes the config file. Only a missing, unreadable
// or undecodable file is an error; malformed entries surface from Validate.
func (p *FileProvider) Load() (*aliasconfig.Config, error) {
	path, err := p.locate()
	if err != nil {
		return nil, err
	}
	p.found = path

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias config %s: %w", path, err)
	}

	tree, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alias config %s: %w", path, err)
	}
	return fromTree(path, tree), nil
}

// Source returns the file the last Load read, or a description of the search.
func (p *FileProvider) Source() string {
	if p.found != "" {
		return p.found
	}
	if p.explicit != "" {
		return p.explicit
	}
	return "search from " + p.startDir
}

func (p *FileProvider) locate() (string, error) {
	if p.explicit != "" {
		if _, err := os.Stat(p.explicit); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrNotFound, p.explicit, err)
		}
		return p.explicit, nil
	}

	if p.startDir != "" {
		dir := filepath.Clean(p.startDir)
		for {
			for _, name := range FileNames {
				candidate := filepath.Join(dir, name)
				if isFile(candidate) {
					return candidate, nil
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if p.homeDir != "" {
		candidate := filepath.Join(p.homeDir, filepath.FromSlash(HomeConfig))
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: looked for %s from %s and in ~/%s",
		ErrNotFound, strings.Join(FileNames, ", "), p.startDir, HomeConfig)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// decode parses data by the file extension into a generic document. An
// empty document decodes to an empty tree.
func decode(path string, data []byte) (map[string]any, error) {
	tree := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return tree, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&tree); err != nil {
			// A file holding only comments or "---" has no document.
			if errors.Is(err, io.EOF) {
				return map[string]any{}, nil
			}
			return nil, err
		}
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}
