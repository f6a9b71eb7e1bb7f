// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for onboard.
type Config struct {
	CoreAPIURL          string `mapstructure:"core_api_url" yaml:"core_api_url"`
	CatalogAPIURL       string `mapstructure:"catalog_api_url" yaml:"catalog_api_url"`
	PostalAPIURL        string `mapstructure:"postal_api_url" yaml:"postal_api_url"`
	CompanyPostalAPIURL string `mapstructure:"company_postal_api_url" yaml:"company_postal_api_url"`
	ReferenceTable      string `mapstructure:"reference_table" yaml:"reference_table"`
	VehicleType         string `mapstructure:"vehicle_type" yaml:"vehicle_type"`
	RequestTimeout      int    `mapstructure:"request_timeout" yaml:"request_timeout"` // seconds
	DebounceMS          int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	DataDir             string `mapstructure:"data_dir" yaml:"data_dir"`
	Journal             bool   `mapstructure:"journal" yaml:"journal"`
	LogLevel            string `mapstructure:"log_level" yaml:"log_level"`
	LogFile             string `mapstructure:"log_file" yaml:"log_file"`
	MetricsAddr         string `mapstructure:"metrics_addr" yaml:"metrics_addr"`
}

// Defaults mirrors the values registered with viper in Load.
func Defaults() *Config {
	return &Config{
		CoreAPIURL:          "https://finatech.azurewebsites.net",
		CatalogAPIURL:       "https://veiculos.fipe.org.br",
		PostalAPIURL:        "https://viacep.com.br",
		CompanyPostalAPIURL: "https://brasilapi.com.br",
		ReferenceTable:      "299",
		VehicleType:         "1",
		RequestTimeout:      30,
		DebounceMS:          500,
		DataDir:             ".onboard",
		Journal:             true,
		LogLevel:            "info",
		LogFile:             "",
		MetricsAddr:         "",
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Debounce returns the installment lookup debounce delay.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// envKeys lists every key bound to an explicit ONBOARD_ variable.
var envKeys = []string{
	"core_api_url",
	"catalog_api_url",
	"postal_api_url",
	"company_postal_api_url",
	"reference_table",
	"vehicle_type",
	"request_timeout",
	"debounce_ms",
	"data_dir",
	"journal",
	"log_level",
	"log_file",
	"metrics_addr",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("onboard")

	d := Defaults()
	v.SetDefault("core_api_url", d.CoreAPIURL)
	v.SetDefault("catalog_api_url", d.CatalogAPIURL)
	v.SetDefault("postal_api_url", d.PostalAPIURL)
	v.SetDefault("company_postal_api_url", d.CompanyPostalAPIURL)
	v.SetDefault("reference_table", d.ReferenceTable)
	v.SetDefault("vehicle_type", d.VehicleType)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("debounce_ms", d.DebounceMS)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("metrics_addr", d.MetricsAddr)

	v.SetEnvPrefix("ONBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so bool/int values parse from the environment
	for _, key := range envKeys {
		if err := v.BindEnv(key, "ONBOARD_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/onboard/onboard.yml or $XDG_CONFIG_HOME/onboard/onboard.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "onboard", "onboard.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "onboard", "onboard.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "onboard.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
