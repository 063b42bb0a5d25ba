// Package normalization maps loosely written configuration strings onto enum values.
package normalization

import (
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
)

// Normalizer maps case-insensitive, whitespace-trimmed strings to enum values.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer over values. Unknown input normalizes to defaultValue.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
		keys:         make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize converts raw to its enum value, or the default when unrecognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeStrict converts raw and rejects unrecognized values. Empty input
// yields the default.
func (n *Normalizer[T]) NormalizeStrict(field, raw string) (T, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	var zero T
	return zero, ferrors.ConfigError("invalid value for "+field).
		WithContext("value", raw).
		WithContext("valid", strings.Join(n.keys, ", ")).
		Build()
}

// ValidKeys returns the accepted spellings in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
