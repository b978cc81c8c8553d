package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dupfind/pkg/utils"
	"gopkg.in/yaml.v3"
)

// FingerprintMode selects how file content is fingerprinted
type FingerprintMode string

const (
	FingerprintFull  FingerprintMode = "full"  // SHA256 over the whole file
	FingerprintQuick FingerprintMode = "quick" // SHA256 over first+last chunk
)

// Config represents the application configuration
type Config struct {
	MinConfidence   float64         `yaml:"min_confidence"`
	ContentMatch    bool            `yaml:"content_match"`
	MinFileSize     string          `yaml:"min_file_size"` // e.g. "1MB"
	VideoExtensions []string        `yaml:"video_extensions"`
	ExcludePatterns []string        `yaml:"exclude_patterns"`
	Fingerprint     FingerprintMode `yaml:"fingerprint"`
	QuickHashChunk  string          `yaml:"quick_hash_chunk"` // e.g. "1MB"
	Fix             FixConfig       `yaml:"fix"`
	DryRun          bool            `yaml:"dry_run"`
	Verbose         bool            `yaml:"verbose"`
}

// FixConfig holds the policy applied before a copy is replaced with a
// hardlink. Size is always re-checked; content verification is opt-in.
type FixConfig struct {
	VerifyContent bool `yaml:"verify_content"`
}

// Load loads configuration from a file, falling back to defaults when
// the file does not exist
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0.0 and 1.0")
	}

	if c.MinFileSize != "" {
		if _, err := utils.ParseSize(c.MinFileSize); err != nil {
			return fmt.Errorf("invalid min_file_size: %w", err)
		}
	}

	if c.QuickHashChunk != "" {
		size, err := utils.ParseSize(c.QuickHashChunk)
		if err != nil {
			return fmt.Errorf("invalid quick_hash_chunk: %w", err)
		}
		if size <= 0 {
			return fmt.Errorf("quick_hash_chunk must be positive")
		}
	}

	switch c.Fingerprint {
	case FingerprintFull, FingerprintQuick:
	default:
		return fmt.Errorf("fingerprint must be %q or %q", FingerprintFull, FingerprintQuick)
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	for _, ext := range c.VideoExtensions {
		if ext == "" || ext[0] != '.' {
			return fmt.Errorf("video extension must start with a dot: %q", ext)
		}
	}

	return nil
}

// MinFileSizeBytes returns the parsed minimum file size in bytes
func (c *Config) MinFileSizeBytes() int64 {
	if c.MinFileSize == "" {
		return 0
	}
	size, err := utils.ParseSize(c.MinFileSize)
	if err != nil {
		return 0
	}
	return size
}

// QuickHashChunkBytes returns the parsed quick-hash chunk size in bytes
func (c *Config) QuickHashChunkBytes() int64 {
	if c.QuickHashChunk == "" {
		return utils.MB
	}
	size, err := utils.ParseSize(c.QuickHashChunk)
	if err != nil || size <= 0 {
		return utils.MB
	}
	return size
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "dupfind")
	return filepath.Join(configDir, "config.yaml"), nil
}
