// Package config loads moquilint settings from defaults, config files, and
// environment variables, and loads the optional per-project rule-set file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/moqui-tools/moquilint/internal/finding"
)

// Configuration represents the moquilint CLI tool configuration
type Configuration struct {
	Extensions   []string `koanf:"extensions" validate:"required,min=1"`
	Indent       int      `koanf:"indent" validate:"min=1,max=8"`
	MaxWidth     int      `koanf:"max_width" validate:"min=40,max=400"`
	BackupSuffix string   `koanf:"backup_suffix" validate:"required"`
	Jobs         int      `koanf:"jobs" validate:"min=0,max=64"` // 0 means one per CPU
	FailOn       string   `koanf:"fail_on" validate:"oneof=error warning info"`
	RulesFile    string   `koanf:"rules_file"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".moquilint", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config; unlike the global file, an explicitly named config
	// that cannot be read is an error.
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("MOQUILINT_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.RulesFile = expandHomePath(cfg.RulesFile)

	return &cfg, nil
}

// FailOnSeverity returns the fail-on threshold as a severity value.
func (c *Configuration) FailOnSeverity() finding.Severity {
	sev, err := finding.ParseSeverity(c.FailOn)
	if err != nil {
		// validate.Struct constrains fail_on to the three valid tokens.
		return finding.SeverityError
	}
	return sev
}

// envTransform converts environment variable names to config keys
// Example: MOQUILINT_MAX_WIDTH -> max_width
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "MOQUILINT_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
