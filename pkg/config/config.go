package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for ptyline
type Config struct {
	// Prompt appearance
	Prompt      string `yaml:"prompt" env:"PTYLINE_PROMPT"`
	PromptColor string `yaml:"prompt_color" env:"PTYLINE_PROMPT_COLOR"`

	// Behavior flags
	ForwardInterrupt bool `yaml:"forward_interrupt" env:"PTYLINE_FORWARD_INTERRUPT"`
	MergeStderr      bool `yaml:"merge_stderr" env:"PTYLINE_MERGE_STDERR"`

	// Transcript, when set, is a file that receives a copy of all child
	// output
	Transcript string `yaml:"transcript" env:"PTYLINE_TRANSCRIPT"`
}

// colorPattern accepts an ANSI palette index or a #rrggbb hex value,
// the two color forms termenv resolves from a string.
var colorPattern = regexp.MustCompile(`^([0-9]{1,3}|#[0-9a-fA-F]{6})$`)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Prompt:           "> ",
		PromptColor:      "6",
		ForwardInterrupt: true,
		MergeStderr:      false,
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("PTYLINE_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ptyline", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "ptyline", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if prompt := os.Getenv("PTYLINE_PROMPT"); prompt != "" {
		cfg.Prompt = prompt
	}

	if color := os.Getenv("PTYLINE_PROMPT_COLOR"); color != "" {
		cfg.PromptColor = color
	}

	if forward := os.Getenv("PTYLINE_FORWARD_INTERRUPT"); forward != "" {
		switch forward {
		case "true", "1", "yes":
			cfg.ForwardInterrupt = true
		case "false", "0", "no":
			cfg.ForwardInterrupt = false
		default:
			return fmt.Errorf("invalid PTYLINE_FORWARD_INTERRUPT value: %q (use true/false)", forward)
		}
	}

	if merge := os.Getenv("PTYLINE_MERGE_STDERR"); merge != "" {
		switch merge {
		case "true", "1", "yes":
			cfg.MergeStderr = true
		case "false", "0", "no":
			cfg.MergeStderr = false
		default:
			return fmt.Errorf("invalid PTYLINE_MERGE_STDERR value: %q (use true/false)", merge)
		}
	}

	if transcript := os.Getenv("PTYLINE_TRANSCRIPT"); transcript != "" {
		cfg.Transcript = transcript
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	// The prompt is redrawn as a single line; control bytes would
	// desynchronize the column bookkeeping.
	for _, r := range cfg.Prompt {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("prompt must not contain control characters")
		}
	}

	if cfg.PromptColor != "" {
		if !colorPattern.MatchString(cfg.PromptColor) {
			return fmt.Errorf("prompt_color must be an ANSI color number or #rrggbb hex, got %q", cfg.PromptColor)
		}
		if cfg.PromptColor[0] != '#' {
			if n, err := strconv.Atoi(cfg.PromptColor); err != nil || n > 255 {
				return fmt.Errorf("prompt_color must be between 0 and 255, got %q", cfg.PromptColor)
			}
		}
	}

	return nil
}
