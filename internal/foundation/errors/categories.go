package errors

import "net/http"

// ErrorCategory groups errors by the part of the build that raised them.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Book inputs.
	CategoryManifest ErrorCategory = "manifest"
	CategoryTemplate ErrorCategory = "template"
	CategoryMarkdown ErrorCategory = "markdown"

	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// categoryInfo is the presentation of a category at the process boundary.
type categoryInfo struct {
	exitCode   int
	httpStatus int
}

var categories = map[ErrorCategory]categoryInfo{
	CategoryValidation: {2, http.StatusBadRequest},
	CategoryNotFound:   {3, http.StatusNotFound},
	CategoryConfig:     {7, http.StatusBadRequest},
	CategoryManifest:   {7, http.StatusUnprocessableEntity},
	CategoryTemplate:   {7, http.StatusUnprocessableEntity},
	CategoryMarkdown:   {11, http.StatusUnprocessableEntity},
	CategoryBuild:      {11, http.StatusUnprocessableEntity},
	CategoryFileSystem: {11, http.StatusInternalServerError},
	CategoryInternal:   {10, http.StatusInternalServerError},
	CategoryRuntime:    {12, http.StatusServiceUnavailable},
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the build
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // recorded, build continues
)

// ErrorContext holds structured fields attached to an error.
type ErrorContext map[string]any

// GetString returns the value for key when it is a non-empty string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok && s != ""
}
