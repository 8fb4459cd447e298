/*
Package config loads the runtime settings of the pae binary from the
environment. Settings are distinct from the alias configuration: they tune
the process pool, logging and shell detection, and are read through viper
with the PAE_ prefix.
*/
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every settings key when reading the environment.
const EnvPrefix = "PAE"

// Settings keys. With EnvPrefix they map to PAE_CONFIG, PAE_POOL_SIZE and so on.
const (
	KeyConfig         = "config"
	KeyPoolSize       = "pool_size"
	KeyDefaultTimeout = "default_timeout"
	KeyShell          = "shell"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyDebug          = "debug"
	KeyVerbose        = "verbose"
)

// ErrInvalidSettings marks a settings value outside its allowed range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the runtime knobs of one pae invocation.
type Settings struct {
	ConfigPath     string        // explicit alias config file, empty for discovery
	PoolSize       int           // concurrent children allowed in the pool
	DefaultTimeout time.Duration // per-task timeout when none is given
	Shell          string        // forced shell kind, empty for detection
	LogLevel       string
	LogFormat      string
}

// Load reads the settings from the process environment.
func Load() (*Settings, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads the settings through v, after registering defaults and
// environment binding on it.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, "")
	v.SetDefault(KeyPoolSize, runtime.NumCPU())
	v.SetDefault(KeyDefaultTimeout, 300000)
	v.SetDefault(KeyShell, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyVerbose, false)

	s := &Settings{
		ConfigPath:     v.GetString(KeyConfig),
		PoolSize:       v.GetInt(KeyPoolSize),
		DefaultTimeout: time.Duration(v.GetInt64(KeyDefaultTimeout)) * time.Millisecond,
		Shell:          v.GetString(KeyShell),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}

	// PAE_DEBUG and PAE_VERBOSE are also written by the env-setting flags of
	// a parent invocation; they win over PAE_LOG_LEVEL.
	switch {
	case v.GetBool(KeyDebug):
		s.LogLevel = "debug"
	case v.GetBool(KeyVerbose):
		s.LogLevel = "info"
	}

	if err := validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func validate(s *Settings) error {
	var errs []error
	if s.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyPoolSize, s.PoolSize))
	}
	if s.DefaultTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be a positive number of milliseconds", KeyDefaultTimeout))
	}
	switch s.Shell {
	case "", "pwsh", "linux", "cmd":
	default:
		errs = append(errs, fmt.Errorf("%s must be one of pwsh, linux or cmd, got %q", KeyShell, s.Shell))
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%s must be one of debug, info, warn or error, got %q", KeyLogLevel, s.LogLevel))
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, s.LogFormat))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}
