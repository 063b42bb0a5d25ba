// Package manifest records the outcome of an injection run as JSON for the
// HTML generation step.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// AssetManifest is the persisted record of one injection run.
type AssetManifest struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	PublicPath *string           `json:"public_path,omitempty"`
	JS         []string          `json:"js"`
	CSS        []string          `json:"css"`
	Assets     map[string]string `json:"assets"` // output name -> sha256 of content
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Duration   int64             `json:"duration_ms"`
}

// New builds a manifest from the compilation and the plugin data after a run.
// runErr, when non-nil, marks the manifest as failed.
func New(c *compilation.Compilation, data *htmlplugin.PluginData, runErr error, duration time.Duration) *AssetManifest {
	m := &AssetManifest{
		ID:         c.ID,
		Timestamp:  time.Now().UTC(),
		PublicPath: c.Options.Output.PublicPath,
		JS:         []string{},
		CSS:        []string{},
		Assets:     make(map[string]string, len(c.Assets)),
		Status:     StatusSuccess,
		Duration:   duration.Milliseconds(),
	}
	if data != nil {
		m.JS = append(m.JS, data.Assets.JS...)
		m.CSS = append(m.CSS, data.Assets.CSS...)
	}
	for name, src := range c.Assets {
		sum := sha256.Sum256(src.Bytes())
		m.Assets[name] = hex.EncodeToString(sum[:])
	}
	if runErr != nil {
		m.Status = StatusFailed
		m.Error = runErr.Error()
	}
	return m
}

// ToJSON serializes the manifest to JSON.
func (m *AssetManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*AssetManifest, error) {
	var m AssetManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's paths and asset
// contents. ID, timestamp and duration are excluded so identical runs hash
// the same.
func (m *AssetManifest) Hash() (string, error) {
	// encoding/json sorts map keys, which keeps Assets stable.
	hashInput := struct {
		PublicPath *string           `json:"public_path"`
		JS         []string          `json:"js"`
		CSS        []string          `json:"css"`
		Assets     map[string]string `json:"assets"`
		Status     string            `json:"status"`
	}{
		PublicPath: m.PublicPath,
		JS:         m.JS,
		CSS:        m.CSS,
		Assets:     m.Assets,
		Status:     m.Status,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Write stores the manifest as name on fs.
func (m *AssetManifest) Write(fs billy.Filesystem, name string) error {
	data, err := m.ToJSON()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode manifest").Build()
	}
	if err := util.WriteFile(fs, name, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write manifest").
			WithContext("path", name).
			Build()
	}
	return nil
}

// Read loads the manifest stored as name on fs.
func Read(fs billy.Filesystem, name string) (*AssetManifest, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read manifest").
			WithContext("path", name).
			Build()
	}
	return FromJSON(data)
}
