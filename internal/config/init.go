package config

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/inject"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Context:   "./static",
		BundleDir: "./dist",
		Output: OutputConfig{
			Directory:  DefaultOutputDirectory,
			PublicPath: inject.String("/"),
			Manifest:   DefaultManifestName,
		},
		Assets: []inject.Asset{
			{
				Filepath:    "vendor/react.production.min.js",
				TypeOfAsset: htmlplugin.AssetTypeJS,
				Hash:        true,
				OutputPath:  "vendor",
			},
			{
				Filepath:         "css/theme.css",
				TypeOfAsset:      htmlplugin.AssetTypeCSS,
				IncludeSourcemap: inject.Bool(false),
			},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
