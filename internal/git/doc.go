// Package git stamps builds with the revision of the project repository.
package git
