// Package config loads the assetinject YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/inject"
)

const (
	DefaultContext         = "."
	DefaultOutputDirectory = "./site"
	DefaultManifestName    = "assets.json"
)

// Config represents the application configuration.
type Config struct {
	// Context is the base directory relative asset file paths are resolved against.
	Context string `yaml:"context"`

	// BundleDir holds existing bundle output loaded into the compilation before injection.
	BundleDir string `yaml:"bundle_dir,omitempty"`

	Output  OutputConfig   `yaml:"output"`
	Assets  []inject.Asset `yaml:"assets"`
	Logging LoggingConfig  `yaml:"logging,omitempty"`
}

// OutputConfig describes where and how the compilation is emitted.
type OutputConfig struct {
	Directory string `yaml:"directory"`

	// PublicPath is the URL prefix for injected assets. Omit it to derive
	// the prefix from each output name.
	PublicPath *string `yaml:"public_path,omitempty"`

	// Manifest is the file name, inside Directory, of the JSON asset manifest.
	Manifest string `yaml:"manifest,omitempty"`

	// Clean removes Directory before emitting.
	Clean bool `yaml:"clean,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads, expands, normalizes and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration data. Environment variables are expanded
// before decoding.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	level, err := logLevelNormalizer.NormalizeStrict("logging.level", string(c.Logging.Level))
	if err != nil {
		return err
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeStrict("logging.format", string(c.Logging.Format))
	if err != nil {
		return err
	}
	c.Logging.Format = format

	for i := range c.Assets {
		c.Assets[i].TypeOfAsset = htmlplugin.NormalizeAssetType(string(c.Assets[i].TypeOfAsset))
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Context == "" {
		c.Context = DefaultContext
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Output.Manifest == "" {
		c.Output.Manifest = DefaultManifestName
	}
}
