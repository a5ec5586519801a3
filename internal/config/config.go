// Package config loads resolver settings from config.yaml and URLRESOLVER_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"urlresolver/internal/adapters/sqlite"
	"urlresolver/internal/application"
	"urlresolver/internal/application/mapping"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix    = "URLRESOLVER"
	envConfigDir = "URLRESOLVER_CONFIG_DIR"

	KeyContextPath = "context_path"
	KeyDevMode     = "dev_mode"
	KeyCatalogDB   = "catalog_db"
	KeyCatalogFile = "catalog_file"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
)

// Config holds the resolved settings
type Config struct {
	Path        string // config.yaml that was read
	ContextPath string
	DevMode     bool
	CatalogDB   string
	CatalogFile string
	LogLevel    string
	LogFormat   string
}

// fileConfig is the structure written to config.yaml on first run
type fileConfig struct {
	ContextPath string `yaml:"context_path"`
	DevMode     bool   `yaml:"dev_mode"`
	CatalogDB   string `yaml:"catalog_db,omitempty"`
	CatalogFile string `yaml:"catalog_file,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Dir returns the config directory: $URLRESOLVER_CONFIG_DIR, else
// $XDG_CONFIG_HOME/urlresolver, else ~/.config/urlresolver.
func Dir() string {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "urlresolver")
}

// Load reads config.yaml from configDir (Dir when empty), writing a default
// file first if none exists. Environment variables override the file.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = Dir()
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	path := filepath.Join(configDir, configFileExt)
	if err := writeDefaultIfMissing(path); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyContextPath, mapping.DefaultContextPath)
	v.SetDefault(KeyDevMode, false)
	v.SetDefault(KeyCatalogDB, sqlite.DefaultPath())
	v.SetDefault(KeyCatalogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Path:        path,
		ContextPath: v.GetString(KeyContextPath),
		DevMode:     v.GetBool(KeyDevMode),
		CatalogDB:   v.GetString(KeyCatalogDB),
		CatalogFile: v.GetString(KeyCatalogFile),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
	}
	if cfg.CatalogDB == "" {
		cfg.CatalogDB = sqlite.DefaultPath()
	}
	if err := application.ValidateContextPath(KeyContextPath, cfg.ContextPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServiceOptions converts the config into application service options
func (c *Config) ServiceOptions() application.Options {
	return application.Options{ContextPath: c.ContextPath, DevMode: c.DevMode}
}

func writeDefaultIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&fileConfig{
		ContextPath: mapping.DefaultContextPath,
		LogLevel:    "info",
		LogFormat:   "text",
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# urlresolver configuration\n# Every key can be overridden with URLRESOLVER_<KEY>.\n\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
