package oscommand

import (
	"fmt"
	"os"

	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// ProcessEnvironment implements ports.EnvironmentSink by writing to the
// environment of the running process, which children then inherit.
type ProcessEnvironment struct{}

// NewProcessEnvironment creates a new ProcessEnvironment.
func NewProcessEnvironment() ports.EnvironmentSink {
	return &ProcessEnvironment{}
}

// Apply sets every variable in effects.
func (ProcessEnvironment) Apply(effects command.EnvironmentEffects) error {
	for _, v := range effects.Vars {
		if err := os.Setenv(v.Name, v.Value); err != nil {
			return fmt.Errorf("setting %s: %w", v.Name, err)
		}
	}
	return nil
}
