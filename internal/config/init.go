package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Title:       "My Portfolio",
		Description: "Personal portfolio and blog",
		BaseURL:     "https://example.com",
		Author: Author{
			Name:   "Jane Doe",
			Email:  "jane@example.com",
			GitHub: "janedoe",
		},
		Collections: map[string]Collection{
			"posts": {
				Permalink: "/blog/:year/:month/:day/:title/",
				SortBy:    "date",
				SortOrder: "desc",
				Layout:    "post",
			},
			"projects": {
				Permalink: "/projects/:name/",
				SortBy:    "weight",
				Layout:    "project",
			},
		},
		Exclude: []string{"drafts/*"},
		Params: map[string]any{
			"tagline": "I build things",
		},
		Output: Output{
			Directory: DefaultOutputDir,
			Clean:     true,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
