// Package config loads the inventory configuration from defaults, a YAML file,
// a .env file, the environment and command-line overrides, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Data struct {
		Dir  string `koanf:"dir"`
		File string `koanf:"file"`
		// DryRun keeps every change in memory and never writes the data file.
		DryRun bool `koanf:"dryrun"`
	} `koanf:"data"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Shell struct {
		Currency string `koanf:"currency"`
	} `koanf:"shell"`
}

// Path returns the location of the data file.
func (c Config) Path() string {
	return filepath.Join(c.Data.Dir, c.Data.File)
}

func (c Config) String() string {
	return fmt.Sprintf("data.dir=%s, data.file=%s, data.dryrun=%t, log.level=%s, shell.currency=%q.",
		c.Data.Dir,
		c.Data.File,
		c.Data.DryRun,
		c.Log.Level,
		c.Shell.Currency)
}

const (
	envPrefix         = "inventory_"
	defaultEnvFile    = ".env"
	DefaultConfigFile = "config.yaml"
)

var defaults = map[string]any{
	"data.dir":       "data",
	"data.file":      "products.csv",
	"data.dryrun":    false,
	"log.level":      "warn",
	"shell.currency": "Rp",
}

// Load reads the configuration from configFile, the .env file and environment variables.
// overrides are keyed like the YAML paths ("data.dir") and take the highest priority.
func Load(configFile string, overrides map[string]any) (*Config, error) {
	// Create a new Koanf instance
	var k = koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 2. Load configuration from yaml file
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading YAML config %s: %w", configFile, err)
		}
	}

	// 3. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToLower(key), envPrefix) {
				continue
			}
			envMap[keyTransformer(key)] = value
		}
		// Load the envMap into Koanf
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Load environment variables from the system
	if err := k.Load(env.Provider(strings.ToUpper(envPrefix), ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	// 5. Command-line overrides, the highest priority
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	var cfg Config
	// 6. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 7. Validate the configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig checks if the configuration values are valid
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Data.Dir) == "" {
		return fmt.Errorf("data directory is not configured")
	}
	if strings.TrimSpace(cfg.Data.File) == "" {
		return fmt.Errorf("data file is not configured")
	}
	if strings.ContainsRune(cfg.Data.File, filepath.Separator) {
		return fmt.Errorf("data file must be a plain file name: %s", cfg.Data.File)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	return nil
}

// keyTransformer transforms environment variable keys to match the expected format
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ReplaceAll(key, "_", ".")
}
