package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assetinject.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	t.Setenv("CDN_URL", "https://cdn.example.com/")
	path := writeConfig(t, `
context: ./static
bundle_dir: ./dist
output:
  directory: ./public
  public_path: ${CDN_URL}
  manifest: manifest.json
assets:
  - filepath: vendor/react.js
    hash: true
    output_path: vendor
  - filepath: theme.css
    type: CSS
    include_sourcemap: false
    public_path: ""
logging:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./static", cfg.Context)
	assert.Equal(t, "./dist", cfg.BundleDir)
	assert.Equal(t, "./public", cfg.Output.Directory)
	require.NotNil(t, cfg.Output.PublicPath)
	assert.Equal(t, "https://cdn.example.com/", *cfg.Output.PublicPath)
	assert.Equal(t, "manifest.json", cfg.Output.Manifest)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)

	require.Len(t, cfg.Assets, 2)
	react := cfg.Assets[0]
	assert.Equal(t, "vendor/react.js", react.Filepath)
	assert.Equal(t, htmlplugin.AssetTypeJS, react.TypeOfAsset)
	assert.True(t, react.Hash)
	assert.True(t, react.WantsSourcemap())
	assert.Nil(t, react.PublicPath)
	assert.Equal(t, "vendor", react.OutputPath)

	theme := cfg.Assets[1]
	assert.Equal(t, htmlplugin.AssetTypeCSS, theme.TypeOfAsset)
	assert.False(t, theme.WantsSourcemap())
	require.NotNil(t, theme.PublicPath)
	assert.Equal(t, "", *theme.PublicPath)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("assets: []\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultContext, cfg.Context)
	assert.Equal(t, DefaultOutputDirectory, cfg.Output.Directory)
	assert.Equal(t, DefaultManifestName, cfg.Output.Manifest)
	assert.Nil(t, cfg.Output.PublicPath)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("assets: [unterminated"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParseInvalidLogLevel(t *testing.T) {
	_, err := Parse([]byte("logging:\n  level: loud\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParseKeepsDescriptorWithoutFilepath(t *testing.T) {
	cfg, err := Parse([]byte("assets:\n  - hash: true\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Assets, 1)
	assert.Empty(t, cfg.Assets[0].Filepath)
}

func TestInitWritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetinject.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Example().Assets, cfg.Assets)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, Init(path, true))
}
