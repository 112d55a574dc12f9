// Package config loads the site configuration.
//
// The config is a JSON file; every field has a default, so running without a
// config file works out of the box. Relative paths are normalized against
// the config file's directory because the executable can be called from
// anywhere.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DBPathEnv overrides the comment database location when set.
const DBPathEnv = "RINBLOG_DB_PATH"

type Config struct {
	SiteTitle string
	Author    string
	AuthorURI string
	BaseURL   string

	ContentDir      string
	CollectionsFile string
	StaticDir       string
	// TemplateDir overrides the embedded templates when set.
	TemplateDir string

	OutDir string
	DBPath string

	Addr string

	MaxPostsOnIndex int
}

// Load reads the config file and applies defaults. A missing file is not an
// error: defaults relative to the working directory apply.
func Load(path string) (*Config, error) {
	conf := &Config{}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		conf.applyDefaults()
		conf.applyEnv()
		return conf, nil
	case err != nil:
		return nil, fmt.Errorf("reading config %v: %w", path, err)
	}

	if err := json.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("parsing config %v: %w", path, err)
	}

	conf.applyDefaults()

	baseDir := filepath.Dir(path)
	conf.ContentDir = normalizePath(conf.ContentDir, baseDir)
	conf.CollectionsFile = normalizePath(conf.CollectionsFile, baseDir)
	conf.StaticDir = normalizePath(conf.StaticDir, baseDir)
	conf.OutDir = normalizePath(conf.OutDir, baseDir)
	conf.DBPath = normalizePath(conf.DBPath, baseDir)
	if conf.TemplateDir != "" {
		conf.TemplateDir = normalizePath(conf.TemplateDir, baseDir)
	}

	conf.applyEnv()
	return conf, nil
}

func (c *Config) applyDefaults() {
	if c.SiteTitle == "" {
		c.SiteTitle = "RinBlog"
	}
	if c.ContentDir == "" {
		c.ContentDir = filepath.Join("content", "posts")
	}
	if c.CollectionsFile == "" {
		c.CollectionsFile = filepath.Join(filepath.Dir(c.ContentDir), "tag_collections.yaml")
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutDir == "" {
		c.OutDir = "site"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join("data", "rinblog.db")
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
}

func (c *Config) applyEnv() {
	if path := os.Getenv(DBPathEnv); path != "" {
		c.DBPath = path
	}
}

func normalizePath(path, baseDir string) string {
	if !filepath.IsAbs(path) {
		return filepath.Join(baseDir, path)
	}
	return path
}
