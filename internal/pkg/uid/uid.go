// Package uid provides identifier generators used across the application.
package uid

// NumberID generates numeric identifiers.
type NumberID interface {
	// Generate returns a new numeric ID.
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	// Generate returns a new string ID.
	Generate() string
}
