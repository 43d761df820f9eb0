// Package config holds the runtime configuration schema and the provider
// registry used to construct STT and LLM backends from config entries.
package config

import (
	"errors"
	"fmt"

	"github.com/farm2bag/voicecart/internal/invoice"
	"github.com/farm2bag/voicecart/internal/match"
)

// LogLevel names a slog level in the config file.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is one of the known levels.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// CatalogFormat selects the on-disk catalog encoding.
type CatalogFormat string

const (
	CatalogYAML CatalogFormat = "yaml"
	CatalogText CatalogFormat = "text"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Server   Server   `yaml:"server"`
	Catalog  Catalog  `yaml:"catalog"`
	Matching Matching `yaml:"matching"`

	Providers Providers `yaml:"providers"`
	Storage   Storage   `yaml:"storage"`
	Invoice   Invoice   `yaml:"invoice"`
}

// Server configures the HTTP listener.
type Server struct {
	ListenAddr string   `yaml:"listen_addr"`
	LogLevel   LogLevel `yaml:"log_level"`
}

// Catalog points at the product catalog file.
type Catalog struct {
	Path   string        `yaml:"path"`
	Format CatalogFormat `yaml:"format"`
}

// Matching tunes the product name matcher.
type Matching struct {
	// Threshold is the minimum similarity for a match. Zero means the
	// built-in default.
	Threshold float64 `yaml:"threshold"`
}

// Providers selects the speech-to-text and LLM backends.
type Providers struct {
	STT ProviderEntry `yaml:"stt"`
	LLM ProviderEntry `yaml:"llm"`
}

// ProviderEntry configures a single provider instance.
type ProviderEntry struct {
	Name    string            `yaml:"name"`
	APIKey  string            `yaml:"api_key"`
	BaseURL string            `yaml:"base_url"`
	Model   string            `yaml:"model"`
	Options map[string]string `yaml:"options"`
}

// Storage configures persistence. An empty DSN selects the in-memory stores.
type Storage struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Invoice configures PDF invoice rendering.
type Invoice struct {
	Seller invoice.Seller `yaml:"seller"`
}

// Validate checks the configuration for structural errors. All problems are
// reported at once via errors.Join.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr must be set"))
	}
	if c.Server.LogLevel != "" && !c.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is not one of debug, info, warn, error", c.Server.LogLevel))
	}
	if c.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog.path must be set"))
	}
	switch c.Catalog.Format {
	case "", CatalogYAML, CatalogText:
	default:
		errs = append(errs, fmt.Errorf("catalog.format %q is not one of yaml, text", c.Catalog.Format))
	}
	if t := c.Matching.Threshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("matching.threshold %g must be within [0, 1]", t))
	}
	if c.Providers.STT.Name == "" {
		errs = append(errs, errors.New("providers.stt.name must be set"))
	}
	if c.Providers.LLM.Name == "" {
		errs = append(errs, errors.New("providers.llm.name must be set"))
	}
	return errors.Join(errs...)
}

// ThresholdOrDefault returns the configured matcher threshold, falling back to the
// matcher default when unset.
func (m Matching) ThresholdOrDefault() float64 {
	if m.Threshold == 0 {
		return match.DefaultThreshold
	}
	return m.Threshold
}
