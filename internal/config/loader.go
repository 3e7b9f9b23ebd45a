package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no config file is named.
var DefaultPath = filepath.Join("~", ".config", "surveylog", "config.yaml")

// Load reads configuration from path, then environment variables.
//
// An empty path means DefaultPath, which may be absent. A named path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg.applyEnv(lookup)

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", expanded, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", expanded, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, name string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set(&c.DataDir, EnvDataDir)
	set(&c.FileName, EnvFileName)
	set(&c.Logging.Level, EnvLogLevel)
	set(&c.Logging.Format, EnvLogFormat)
	set(&c.Export.SpoolDir, EnvSpoolDir)
	set(&c.Export.Dir, EnvExportDir)
	set(&c.Export.ShareCommand, EnvShareCommand)
	set(&c.Export.MailTo, EnvMailTo)
}

// expandPaths resolves a leading ~ in every directory setting.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.DataDir, &c.Export.SpoolDir, &c.Export.Dir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}
