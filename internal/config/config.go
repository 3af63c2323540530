package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jacksosa/sitegen/internal/errors"
)

// Config represents the site configuration loaded from site.yaml.
//
// It is read once at build start and treated as immutable for the duration
// of a build.
type Config struct {
	Title       string                `yaml:"title"`
	Description string                `yaml:"description,omitempty"`
	BaseURL     string                `yaml:"base_url,omitempty"`
	Author      Author                `yaml:"author,omitempty"`
	Exclude     []string              `yaml:"exclude,omitempty"`
	Plugins     []string              `yaml:"plugins,omitempty"`
	Analytics   *Analytics            `yaml:"analytics,omitempty"`
	Params      map[string]any        `yaml:"params,omitempty"`
	Collections map[string]Collection `yaml:"collections,omitempty"`
	Markup      Markup                `yaml:"markup,omitempty"`
	Strict      bool                  `yaml:"strict,omitempty"`
	GitInfo     bool                  `yaml:"git_info,omitempty"`
	Cache       Cache                 `yaml:"cache,omitempty"`
	Dirs        Dirs                  `yaml:"dirs,omitempty"`
	Output      Output                `yaml:"output,omitempty"`
}

// Author identifies the site owner for templates and feeds.
type Author struct {
	Name     string `yaml:"name,omitempty"`
	Email    string `yaml:"email,omitempty"`
	GitHub   string `yaml:"github,omitempty"`
	Twitter  string `yaml:"twitter,omitempty"`
	LinkedIn string `yaml:"linkedin,omitempty"`
}

// Analytics carries tracking configuration passed through to templates.
type Analytics struct {
	Provider string `yaml:"provider"`
	ID       string `yaml:"id"`
}

// Collection declares a named content grouping and how its pages are
// ordered and addressed.
type Collection struct {
	Permalink string `yaml:"permalink"`
	SortBy    string `yaml:"sort_by,omitempty"`    // "date", "weight" or "" (discovery order)
	SortOrder string `yaml:"sort_order,omitempty"` // "asc" or "desc"
	Layout    string `yaml:"layout,omitempty"`
}

// Markup configures the Markdown renderer.
type Markup struct {
	HardWraps  bool `yaml:"hard_wraps,omitempty"`
	UnsafeHTML bool `yaml:"unsafe_html,omitempty"`
}

// Cache configures the incremental build cache.
type Cache struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Dirs names the source directories of the site.
type Dirs struct {
	Content string `yaml:"content,omitempty"`
	Layouts string `yaml:"layouts,omitempty"`
	Static  string `yaml:"static,omitempty"`
	Data    string `yaml:"data,omitempty"`
}

// Output configures where and how the site is written.
type Output struct {
	Directory string `yaml:"directory,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// Load loads configuration from the specified file.
//
// Environment variables referenced as $VAR or ${VAR} in the YAML are
// expanded before parsing; a .env file, if present, is loaded first.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigParseError(configPath, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
