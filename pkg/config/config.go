package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/supportsync/pkg/reconcile"
	"github.com/spf13/viper"
)

// DefaultCommitMessage is the handlebars template used for commits.
const DefaultCommitMessage = "Add {{#each versions}}{{{this}}}{{#unless @last}}, {{/unless}}{{/each}} to {{{marker}}}"

// Config holds all configuration for supportsync
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest"`
	Target   TargetConfig   `mapstructure:"target"`
	Git      GitConfig      `mapstructure:"git"`
}

// ManifestConfig describes where released manifests come from.
type ManifestConfig struct {
	Repo        string        `mapstructure:"repo"`
	Ref         string        `mapstructure:"ref"`
	Subdir      string        `mapstructure:"subdir"`
	Dir         string        `mapstructure:"dir"` // local directory; bypasses the clone
	Pattern     string        `mapstructure:"pattern"`
	Depth       int           `mapstructure:"depth"`
	ValidateXML bool          `mapstructure:"validate_xml"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Cache       bool          `mapstructure:"cache"` // keep clones under GetHome()/cache/manifest
}

// TargetConfig locates the file holding the declared list.
type TargetConfig struct {
	RepoRoot string `mapstructure:"repo_root"`
	File     string `mapstructure:"file"`
	Marker   string `mapstructure:"marker"`
}

// GitConfig controls staging and committing of the rewritten file.
type GitConfig struct {
	Stage         bool   `mapstructure:"stage"`
	Commit        bool   `mapstructure:"commit"`
	CommitMessage string `mapstructure:"commit_message"`
	AuthorName    string `mapstructure:"author_name"`
	AuthorEmail   string `mapstructure:"author_email"`
}

var defaultConfig = Config{
	Manifest: ManifestConfig{
		Repo:        "https://github.com/couchbase/manifest.git",
		Subdir:      "released/couchbase-server",
		Pattern:     "*.xml",
		Depth:       1,
		Concurrency: 8,
		Timeout:     parseDurationDefault("5m"),
	},
	Target: TargetConfig{
		RepoRoot: ".",
		File:     "cb-non-package-installer",
		Marker:   reconcile.DefaultMarker,
	},
	Git: GitConfig{
		Stage:         true,
		CommitMessage: DefaultCommitMessage,
	},
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}

// NewViper returns a viper instance with defaults, search paths and
// environment binding applied. Callers may bind flags before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("manifest.repo", d.Manifest.Repo)
	v.SetDefault("manifest.ref", d.Manifest.Ref)
	v.SetDefault("manifest.subdir", d.Manifest.Subdir)
	v.SetDefault("manifest.dir", d.Manifest.Dir)
	v.SetDefault("manifest.pattern", d.Manifest.Pattern)
	v.SetDefault("manifest.depth", d.Manifest.Depth)
	v.SetDefault("manifest.validate_xml", d.Manifest.ValidateXML)
	v.SetDefault("manifest.concurrency", d.Manifest.Concurrency)
	v.SetDefault("manifest.timeout", d.Manifest.Timeout)
	v.SetDefault("manifest.cache", d.Manifest.Cache)

	v.SetDefault("target.repo_root", d.Target.RepoRoot)
	v.SetDefault("target.file", d.Target.File)
	v.SetDefault("target.marker", d.Target.Marker)

	v.SetDefault("git.stage", d.Git.Stage)
	v.SetDefault("git.commit", d.Git.Commit)
	v.SetDefault("git.commit_message", d.Git.CommitMessage)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)

	// Configuration file search paths
	v.SetConfigName("supportsync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // Current directory
	v.AddConfigPath("$HOME") // Home directory
	if home, err := GetHome(); err == nil {
		v.AddConfigPath(filepath.Join(home, "config"))
	}

	// Environment variables
	v.SetEnvPrefix("SUPPORTSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file (or the explicit path, when set),
// validates it against the config schema and unmarshals the merged result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		data, err := os.ReadFile(filepath.Clean(used))
		if err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", used, err)
		}
		if err := ValidateConfig(data); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", used, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfig loads configuration from defaults, config file and environment.
func LoadConfig() (*Config, error) {
	return Load(NewViper(), "")
}

// Validate checks values that the schema cannot see, such as flag overrides.
func (c *Config) Validate() error {
	if c.Manifest.Dir == "" && strings.TrimSpace(c.Manifest.Repo) == "" {
		return errors.New("manifest.repo or manifest.dir must be set")
	}
	if strings.TrimSpace(c.Target.File) == "" {
		return errors.New("target.file cannot be empty")
	}
	if strings.TrimSpace(c.Target.Marker) == "" {
		return errors.New("target.marker cannot be empty")
	}
	if c.Manifest.Depth < 0 {
		return fmt.Errorf("manifest.depth must be >= 0, got %d", c.Manifest.Depth)
	}
	if c.Manifest.Concurrency < 1 {
		return fmt.Errorf("manifest.concurrency must be >= 1, got %d", c.Manifest.Concurrency)
	}
	if c.Git.Commit && !c.Git.Stage {
		return errors.New("git.commit requires git.stage")
	}
	return nil
}

// CacheDir returns the directory for persistent manifest clones, or "" when
// caching is disabled.
func (c *Config) CacheDir() (string, error) {
	if !c.Manifest.Cache {
		return "", nil
	}
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "cache", "manifest"), nil
}

// parseDurationDefault is a helper to create default duration values from string literal
func parseDurationDefault(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// GetHome returns the supportsync home directory
func GetHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("SUPPORTSYNC_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}

	return filepath.Join(homeDir, ".supportsync"), nil
}
