package inject

import "git.home.luguber.info/inful/assetinject/internal/htmlplugin"

// Asset describes one file to inject.
type Asset struct {
	// Filepath locates the source file, relative to the compilation context
	// unless absolute. Required.
	Filepath string `yaml:"filepath" json:"filepath"`

	// TypeOfAsset selects the list the public path is added to. Defaults to js.
	TypeOfAsset htmlplugin.AssetType `yaml:"type,omitempty" json:"type,omitempty"`

	// IncludeSourcemap also registers "<Filepath>.map". Nil means true.
	IncludeSourcemap *bool `yaml:"include_sourcemap,omitempty" json:"include_sourcemap,omitempty"`

	// Hash appends "?<content hash>" to the public path.
	Hash bool `yaml:"hash,omitempty" json:"hash,omitempty"`

	// PublicPath overrides the compilation's output public path. Nil means
	// derive it; a pointer to "" means no prefix.
	PublicPath *string `yaml:"public_path,omitempty" json:"public_path,omitempty"`

	// OutputPath moves the registered file under this directory in the
	// output. The public path is not affected.
	OutputPath string `yaml:"output_path,omitempty" json:"output_path,omitempty"`
}

// Type returns the asset type with the default applied.
func (a Asset) Type() htmlplugin.AssetType {
	if a.TypeOfAsset == "" {
		return htmlplugin.AssetTypeJS
	}
	return a.TypeOfAsset
}

// WantsSourcemap reports whether the sibling sourcemap should be registered.
func (a Asset) WantsSourcemap() bool {
	return a.IncludeSourcemap == nil || *a.IncludeSourcemap
}

// Bool returns a pointer to b, for optional descriptor fields.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for optional descriptor fields.
func String(s string) *string { return &s }
