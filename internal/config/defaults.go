package config

import (
	"strings"

	"github.com/jacksosa/sitegen/internal/errors"
)

// Default source and output locations, following the conventional
// content/layouts/static/data tree.
const (
	DefaultContentDir = "content"
	DefaultLayoutsDir = "layouts"
	DefaultStaticDir  = "static"
	DefaultDataDir    = "data"
	DefaultOutputDir  = "./public"
	DefaultCachePath  = ".sitegen-cache.db"
)

// applyDefaults fills in the conventional directory layout and the built-in
// posts and projects collections when the config omits them.
func (c *Config) applyDefaults() {
	if c.Dirs.Content == "" {
		c.Dirs.Content = DefaultContentDir
	}
	if c.Dirs.Layouts == "" {
		c.Dirs.Layouts = DefaultLayoutsDir
	}
	if c.Dirs.Static == "" {
		c.Dirs.Static = DefaultStaticDir
	}
	if c.Dirs.Data == "" {
		c.Dirs.Data = DefaultDataDir
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
		c.Output.Clean = true
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}

	if c.Collections == nil {
		c.Collections = map[string]Collection{}
	}
	if _, ok := c.Collections["posts"]; !ok {
		c.Collections["posts"] = Collection{
			Permalink: "/blog/:year/:month/:day/:title/",
			SortBy:    "date",
			SortOrder: "desc",
			Layout:    "post",
		}
	}
	if _, ok := c.Collections["projects"]; !ok {
		c.Collections["projects"] = Collection{
			Permalink: "/projects/:name/",
			SortBy:    "weight",
			SortOrder: "asc",
			Layout:    "project",
		}
	}

	for name, col := range c.Collections {
		if col.SortBy == "" && name == "posts" {
			col.SortBy = "date"
			col.SortOrder = "desc"
		}
		if col.SortOrder == "" {
			col.SortOrder = "asc"
			if col.SortBy == "date" {
				col.SortOrder = "desc"
			}
		}
		c.Collections[name] = col
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// validate checks required fields. A malformed configuration is a fatal,
// build-stopping condition.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.ConfigRequired("title")
	}
	for name, col := range c.Collections {
		if strings.TrimSpace(col.Permalink) == "" {
			return errors.ConfigInvalid("collections."+name+".permalink", "permalink pattern must not be empty")
		}
		if !strings.HasPrefix(col.Permalink, "/") {
			return errors.ConfigInvalid("collections."+name+".permalink", "permalink pattern must start with /")
		}
		switch col.SortBy {
		case "", "date", "weight", "title":
		default:
			return errors.ConfigInvalid("collections."+name+".sort_by", "must be one of date, weight, title")
		}
		switch col.SortOrder {
		case "", "asc", "desc":
		default:
			return errors.ConfigInvalid("collections."+name+".sort_order", "must be asc or desc")
		}
	}
	if c.Analytics != nil && c.Analytics.Provider != "" && c.Analytics.ID == "" {
		return errors.ConfigInvalid("analytics.id", "analytics provider set but id is empty")
	}
	return nil
}
