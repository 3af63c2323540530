// Package sitedata loads the YAML data files (timeline, skills, testimonials)
// templates consume as .Site.Data.
package sitedata

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacksosa/sitegen/internal/errors"
)

// Load reads every *.yml/*.yaml file under dir into a map keyed by file
// basename. A missing data directory yields an empty map; a malformed data
// file is fatal, like malformed configuration.
func Load(dir string) (map[string]any, error) {
	data := map[string]any{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to read data directory").
			WithContext("path", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to read data file").
				WithContext("path", name)
		}

		var value any
		if err := yaml.Unmarshal(raw, &value); err != nil {
			return nil, errors.ContentParseError(filepath.Join(dir, name), err)
		}

		data[strings.TrimSuffix(name, ext)] = value
	}

	return data, nil
}
