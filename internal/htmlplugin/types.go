package htmlplugin

import (
	"strings"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
)

// AssetType selects which list an injected path is added to.
type AssetType string

const (
	AssetTypeJS  AssetType = "js"
	AssetTypeCSS AssetType = "css"
)

// IsValid returns true if the asset type is recognized.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeJS, AssetTypeCSS:
		return true
	default:
		return false
	}
}

// String returns the string representation of the asset type.
func (t AssetType) String() string {
	return string(t)
}

// NormalizeAssetType trims and lowercases raw. Empty input yields AssetTypeJS.
func NormalizeAssetType(raw string) AssetType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return AssetTypeJS
	}
	return AssetType(s)
}

// Assets holds the public paths the HTML step will reference, per type, in
// rendering order.
type Assets struct {
	JS  []string `json:"js"`
	CSS []string `json:"css"`
}

// Prepend inserts p at the front of the list for t.
func (a *Assets) Prepend(t AssetType, p string) error {
	switch t {
	case AssetTypeJS:
		a.JS = append([]string{p}, a.JS...)
	case AssetTypeCSS:
		a.CSS = append([]string{p}, a.CSS...)
	default:
		return ferrors.ValidationError("unknown asset type").
			WithContext("asset_type", string(t)).
			Build()
	}
	return nil
}

// List returns the paths registered for t, or nil for an unknown type.
func (a *Assets) List(t AssetType) []string {
	switch t {
	case AssetTypeJS:
		return a.JS
	case AssetTypeCSS:
		return a.CSS
	default:
		return nil
	}
}

// PluginData is the object handed to asset injection by the HTML plugin and
// returned to it once injection completes.
type PluginData struct {
	// Plugin registers raw files in the compilation.
	Plugin FileAdder

	// Assets are the per-type public paths.
	Assets Assets
}

// NewPluginData creates plugin data with empty asset lists.
func NewPluginData(adder FileAdder) *PluginData {
	return &PluginData{
		Plugin: adder,
		Assets: Assets{JS: []string{}, CSS: []string{}},
	}
}
