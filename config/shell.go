package config

import (
	"fmt"
	"time"

	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/util"
	"github.com/kbukum/shellkit/validation"
)

// ShellConfig holds the settings shared by every command the library
// spawns. Projects embed it in their own config structs.
type ShellConfig struct {
	// Shell is the interpreter used for command-line invocations.
	Shell string `yaml:"shell" mapstructure:"shell" validate:"required"`
	// GracePeriod is how long a terminated process may keep running
	// before it is killed.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// MemoDir is where memoized stream recordings are kept.
	MemoDir string `yaml:"memo_dir" mapstructure:"memo_dir"`
	// Env holds extra variables appended to each child's environment,
	// as KEY=VALUE pairs.
	Env []string `yaml:"env" mapstructure:"env"`

	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetShellConfig returns the embedded ShellConfig. Embedding structs
// get this method promoted, so they satisfy the loader's interface
// automatically.
func (c *ShellConfig) GetShellConfig() *ShellConfig {
	return c
}

// ApplyDefaults fills unset fields. Override in embedding structs and
// call c.ShellConfig.ApplyDefaults() first.
func (c *ShellConfig) ApplyDefaults() {
	c.Shell = util.Coalesce(c.Shell, "sh")
	if c.GracePeriod <= 0 {
		c.GracePeriod = 5 * time.Second
	}
	c.Env = util.Unique(c.Env)
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration. Override in embedding structs and
// call c.ShellConfig.Validate() first.
func (c *ShellConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	for _, kv := range c.Env {
		if !isEnvPair(kv) {
			return fmt.Errorf("config.env: %q is not a KEY=VALUE pair", kv)
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

func isEnvPair(kv string) bool {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return i > 0
		}
	}
	return false
}
