package inject

import (
	"crypto/md5" // #nosec G501 -- cache-busting fingerprint, not a security boundary
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
)

// hashLength is the number of hex characters kept from the digest.
const hashLength = 20

// EnsureTrailingSlash appends "/" to a non-empty s that lacks one.
func EnsureTrailingSlash(s string) string {
	if s != "" && !strings.HasSuffix(s, "/") {
		return s + "/"
	}
	return s
}

// ResolvePublicPath returns the compilation's output public path, or when
// unset, the relative path from filename's directory back to the output root.
func ResolvePublicPath(c *compilation.Compilation, filename string) string {
	if p := c.Options.Output.PublicPath; p != nil {
		return EnsureTrailingSlash(*p)
	}
	return EnsureTrailingSlash(relativeToRoot(filename))
}

func relativeToRoot(filename string) string {
	dir := path.Dir(filepath.ToSlash(filename))
	rel, err := filepath.Rel(filepath.FromSlash(dir), ".")
	if err != nil {
		return ""
	}
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." {
		return ""
	}
	return rel
}

// HashSuffix returns "?" followed by the first 20 hex characters of the MD5
// digest of content.
func HashSuffix(content []byte) string {
	sum := md5.Sum(content) // #nosec G401
	return "?" + hex.EncodeToString(sum[:])[:hashLength]
}

// relocatedName is the asset map key for name moved under outputPath.
func relocatedName(outputPath, name string) string {
	return outputPath + "/" + name
}
