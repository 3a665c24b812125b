// Package config loads analysis defaults from .env, .visualdep.yaml and
// VISUALDEP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file looked up in the analyzed root.
const FileName = ".visualdep.yaml"

const envPrefix = "VISUALDEP_"

// Config holds the analysis and rendering defaults a run starts from.
type Config struct {
	Extension       string `yaml:"extension"`
	IncludeExternal bool   `yaml:"include_external"`
	Top             int    `yaml:"top"`
	Dim             int    `yaml:"dim"`
	Seed            int64  `yaml:"seed"`
	Workers         int    `yaml:"workers"`
	Gitignore       bool   `yaml:"gitignore"`
	SkipIgnored     bool   `yaml:"skip_ignored"`
	Format          string `yaml:"format"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Extension: ".py",
		Top:       10,
		Dim:       3,
		Seed:      42,
		Format:    "html",
	}
}

// Load returns Default overlaid with dir/.visualdep.yaml (if present) and then
// VISUALDEP_* variables. A .env file in dir is loaded into the environment first
// without overriding variables that are already set. The result is not
// validated; callers overlay their flags first and then call Validate.
func Load(dir string) (Config, error) {
	cfg := Default()

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	configFile := filepath.Join(dir, FileName)
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no run can use.
func (c Config) Validate() error {
	if c.Dim != 2 && c.Dim != 3 {
		return fmt.Errorf("invalid dim %d (valid options: 2, 3)", c.Dim)
	}
	if c.Top < 0 {
		return fmt.Errorf("invalid top %d: must not be negative", c.Top)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", c.Workers)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("EXTENSION"); ok {
		cfg.Extension = v
	}
	if v, ok := lookup("FORMAT"); ok {
		cfg.Format = v
	}

	for key, target := range map[string]*bool{
		"INCLUDE_EXTERNAL": &cfg.IncludeExternal,
		"GITIGNORE":        &cfg.Gitignore,
		"SKIP_IGNORED":     &cfg.SkipIgnored,
	} {
		if v, ok := lookup(key); ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*target = parsed
		}
	}

	for key, target := range map[string]*int{
		"TOP":     &cfg.Top,
		"DIM":     &cfg.Dim,
		"WORKERS": &cfg.Workers,
	} {
		if v, ok := lookup(key); ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*target = parsed
		}
	}

	if v, ok := lookup("SEED"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", envPrefix, err)
		}
		cfg.Seed = parsed
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
