package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyAsset      = "asset"
	KeyAssetType  = "asset_type"
	KeyOutputName = "output_name"
	KeyOutputPath = "output_path"
	KeyPublicPath = "public_path"
	KeyHash       = "hash"
	KeyIndex      = "index"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Asset(p string) slog.Attr        { return slog.String(KeyAsset, p) }
func AssetType(t string) slog.Attr    { return slog.String(KeyAssetType, t) }
func OutputName(n string) slog.Attr   { return slog.String(KeyOutputName, n) }
func OutputPath(p string) slog.Attr   { return slog.String(KeyOutputPath, p) }
func PublicPath(p string) slog.Attr   { return slog.String(KeyPublicPath, p) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func Index(i int) slog.Attr           { return slog.Int(KeyIndex, i) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
