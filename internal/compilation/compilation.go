package compilation

import (
	"slices"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
)

// OutputOptions mirrors the bundler's output settings that asset paths depend on.
type OutputOptions struct {
	// PublicPath is the URL prefix for emitted assets. Nil means unset, which
	// is distinct from an explicit empty prefix.
	PublicPath *string
}

// Options holds the compilation settings.
type Options struct {
	Output OutputOptions
}

// WithPublicPath returns Options with output.publicPath set to p.
func WithPublicPath(p string) Options {
	return Options{Output: OutputOptions{PublicPath: &p}}
}

// Compilation is the mutable result of one bundling run.
type Compilation struct {
	// ID uniquely identifies this run.
	ID string

	// Context is the base directory used to resolve relative input paths.
	Context string

	Options Options

	// Assets maps output names to their content.
	Assets map[string]Source

	// Errors collects failures surfaced to the host.
	Errors []error

	// FileDependencies lists input files in first-seen order.
	FileDependencies []string
	depSeen          map[string]struct{}
}

// New creates an empty compilation rooted at context.
func New(context string, opts Options) *Compilation {
	if context == "" {
		context = "."
	}
	return &Compilation{
		ID:      uuid.NewString(),
		Context: context,
		Options: opts,
		Assets:  make(map[string]Source),
		depSeen: make(map[string]struct{}),
	}
}

// Asset returns the content registered under name.
func (c *Compilation) Asset(name string) (Source, bool) {
	src, ok := c.Assets[name]
	return src, ok
}

// SetAsset registers src under name, replacing any previous entry.
func (c *Compilation) SetAsset(name string, src Source) {
	c.Assets[name] = src
}

// DeleteAsset removes name from the asset map.
func (c *Compilation) DeleteAsset(name string) {
	delete(c.Assets, name)
}

// RenameAsset moves the entry at from to to. An existing entry at to is replaced.
func (c *Compilation) RenameAsset(from, to string) error {
	src, ok := c.Assets[from]
	if !ok {
		return ferrors.NotFoundError("asset not registered").
			WithContext("asset", from).
			Build()
	}
	if from == to {
		return nil
	}
	c.Assets[to] = src
	delete(c.Assets, from)
	return nil
}

// AssetNames returns the registered output names in sorted order.
func (c *Compilation) AssetNames() []string {
	names := make([]string, 0, len(c.Assets))
	for name := range c.Assets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AddError records err on the compilation.
func (c *Compilation) AddError(err error) {
	if err == nil {
		return
	}
	c.Errors = append(c.Errors, err)
}

// HasErrors reports whether any error was recorded.
func (c *Compilation) HasErrors() bool {
	return len(c.Errors) > 0
}

// AddFileDependency records path as an input of this run. Duplicates are ignored.
func (c *Compilation) AddFileDependency(path string) {
	if c.depSeen == nil {
		c.depSeen = make(map[string]struct{})
	}
	if _, ok := c.depSeen[path]; ok {
		return
	}
	c.depSeen[path] = struct{}{}
	c.FileDependencies = append(c.FileDependencies, path)
}
