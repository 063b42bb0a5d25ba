package compilation

import (
	"context"
	"log/slog"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
)

// LoadFS seeds the asset map with every regular file below root. Keys are
// slash-separated paths relative to root.
func (c *Compilation) LoadFS(ctx context.Context, fs billy.Filesystem, root string) error {
	if root == "" {
		root = "."
	}
	return c.loadDir(ctx, fs, root, "")
}

func (c *Compilation) loadDir(ctx context.Context, fs billy.Filesystem, dir, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read bundle directory").
			WithContext("path", dir).
			Build()
	}
	for _, entry := range entries {
		name := entry.Name()
		key := name
		if prefix != "" {
			key = prefix + "/" + name
		}
		full := fs.Join(dir, name)
		if entry.IsDir() {
			if err := c.loadDir(ctx, fs, full, key); err != nil {
				return err
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}
		data, err := util.ReadFile(fs, full)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read bundle file").
				WithContext("path", full).
				Build()
		}
		c.Assets[key] = RawSource(data)
	}
	return nil
}

// Emit writes every asset to fs, creating directories for nested keys. A nil
// logger uses slog.Default.
func (c *Compilation) Emit(ctx context.Context, fs billy.Filesystem, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, name := range c.AssetNames() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dir := path.Dir(name); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
					WithContext("path", dir).
					Build()
			}
		}
		data := c.Assets[name].Bytes()
		if err := util.WriteFile(fs, name, data, 0o644); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write asset").
				WithContext("path", name).
				Build()
		}
		logger.Debug("Emitted asset", logfields.Asset(name), logfields.Bytes(len(data)))
	}
	return nil
}
