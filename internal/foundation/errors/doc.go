// Package errors provides the classified error primitives used across assetinject.
//
// A ClassifiedError carries a category, a severity, a retry hint and a small
// context map. The CLI adapter turns categories into process exit codes.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryFileSystem, "could not load file").
//		WithContext("path", absPath).
//		Build()
package errors
