// Package errors provides the classified error primitives used across sitebook.
//
// A ClassifiedError carries a category, a severity and structured context in
// addition to its message and cause. Errors are built with a fluent builder:
//
//	err := errors.WrapError(cause, errors.CategoryTemplate, "read chapter template").
//		WithContext("path", path).
//		Fatal().
//		Build()
//
// The CLI and HTTP adapters turn classified errors into exit codes and JSON
// responses respectively.
package errors
