package htmlplugin

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
)

// FileAdder registers a raw file in a compilation and returns the output name
// it was assigned.
type FileAdder interface {
	AddFileToAssets(ctx context.Context, filename string, c *compilation.Compilation) (string, error)
}

// FileAdderFunc adapts a function to FileAdder.
type FileAdderFunc func(ctx context.Context, filename string, c *compilation.Compilation) (string, error)

func (f FileAdderFunc) AddFileToAssets(ctx context.Context, filename string, c *compilation.Compilation) (string, error) {
	return f(ctx, filename, c)
}

// FSFileAdder reads files from a billy filesystem and registers them under
// their base name.
type FSFileAdder struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

// NewFSFileAdder creates a FileAdder reading from fs.
func NewFSFileAdder(fs billy.Filesystem, logger *slog.Logger) *FSFileAdder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSFileAdder{fs: fs, logger: logger}
}

// AddFileToAssets resolves filename against the compilation context, reads it
// and stores it in c.Assets under its base name. The resolved path is recorded
// as a file dependency.
func (a *FSFileAdder) AddFileToAssets(ctx context.Context, filename string, c *compilation.Compilation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resolved := a.resolve(filename, c.Context)
	data, err := util.ReadFile(a.fs, resolved)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not load file").
			WithContext("path", resolved).
			Build()
	}

	name := path.Base(filepath.ToSlash(resolved))
	c.AddFileDependency(resolved)
	c.SetAsset(name, compilation.RawSource(data))

	a.logger.Debug("Registered file",
		logfields.Path(resolved),
		logfields.OutputName(name),
		logfields.Bytes(len(data)))
	return name, nil
}

func (a *FSFileAdder) resolve(filename, base string) string {
	if filepath.IsAbs(filename) || base == "" || base == "." {
		return filepath.Clean(filename)
	}
	return a.fs.Join(base, filename)
}
