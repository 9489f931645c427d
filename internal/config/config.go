// Package config provides configuration loading for the API explorer.
package config

import (
	"errors"

	"github.com/GabrielNunesIT/api-explorer/internal/adapters/fetcher"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
)

// EnvPrefix prefixes the environment variables read by Load. Underscores
// after the prefix separate sections, so EXPLORER_SERVER_LISTEN sets
// server.listen.
const EnvPrefix = "EXPLORER_"

// Config holds the application configuration.
type Config struct {
	// Source is the URL of the schema document mounted at startup.
	Source string       `koanf:"source"`
	Server ServerConfig `koanf:"server"`
	Fetch  FetchConfig  `koanf:"fetch"`
	Wiki   WikiConfig   `koanf:"wiki"`
	View   ViewConfig   `koanf:"view"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen string `koanf:"listen"`
	// AllowMount enables /mount, which makes the server fetch any http(s)
	// URL a client names.
	AllowMount bool `koanf:"mount"`
}

// FetchConfig configures outgoing requests.
type FetchConfig struct {
	UserAgent    string `koanf:"agent"`
	MaxBodyBytes int64  `koanf:"limit"`
}

// WikiConfig configures the markdown page.
type WikiConfig struct {
	URL string `koanf:"url"`
}

// ViewConfig configures the display tree.
type ViewConfig struct {
	UntaggedLabel string `koanf:"untagged"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Listen: ":8080"},
		Fetch: FetchConfig{
			UserAgent:    "api-explorer",
			MaxBodyBytes: fetcher.DefaultMaxBodyBytes,
		},
		View: ViewConfig{UntaggedLabel: view.DefaultUntaggedLabel},
	}
}

// Load returns the application configuration using go-libs config-loader.
// Defaults are overridden by the file at path, when given, and then by
// EXPLORER_ environment variables.
func Load(path string) (*Config, error) {
	opts := []configloader.Option[Config]{configloader.WithDefaults(Defaults())}
	if path != "" {
		opts = append(opts, configloader.WithFile[Config](path))
	}
	opts = append(opts, configloader.WithEnv[Config](EnvPrefix))

	cfg, err := configloader.NewConfigLoader(opts...).Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen must not be empty"))
	}

	if c.Fetch.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("fetch.limit must be positive"))
	}

	return errors.Join(errs...)
}
