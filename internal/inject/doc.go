// Package inject adds externally supplied asset files to a compilation and
// records their public paths on the HTML plugin data.
//
// Descriptors are processed strictly in order. The first failure aborts the
// remaining descriptors; whatever was already registered stays registered.
package inject
