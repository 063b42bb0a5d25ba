package config

import (
	"path"
	"strings"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
)

// Validate checks the configuration for values injection cannot work with.
// Descriptors without a filepath are left for the injector to report.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Directory) == "" {
		return ferrors.ConfigError("output.directory must not be empty").Build()
	}
	if strings.ContainsAny(c.Output.Manifest, `/\`) {
		return ferrors.ConfigError("output.manifest must be a file name").
			WithContext("value", c.Output.Manifest).
			Build()
	}
	for i, asset := range c.Assets {
		if !asset.Type().IsValid() {
			return ferrors.ConfigError("unsupported asset type").
				WithContext("index", i).
				WithContext("value", string(asset.TypeOfAsset)).
				Build()
		}
		if err := validateOutputPath(asset.OutputPath); err != nil {
			return err.WithContext("index", i)
		}
	}
	return nil
}

func validateOutputPath(p string) *ferrors.ClassifiedError {
	if p == "" {
		return nil
	}
	if path.IsAbs(p) || strings.HasPrefix(p, `\`) {
		return ferrors.ConfigError("output_path must be relative").
			WithContext("value", p).
			Build()
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return ferrors.ConfigError("output_path must not leave the output directory").
				WithContext("value", p).
				Build()
		}
	}
	return nil
}
