package validator

// Validator validates annotated structs.
type Validator interface {
	// Validate returns nil when data passes all of its declared rules.
	Validate(data any) error
}
