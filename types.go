package schemagate

import "time"

// SchemaRecord is a registered schema with its full body.
// ID is unique across the registry and immutable once assigned; UploadedAt is
// set at creation and never changed by Update.
type SchemaRecord struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Schema     Value     `json:"schema"`
	UploadedAt time.Time `json:"uploadDate"`
}

// SchemaMetadata describes a registered schema without its body. Description
// is only populated when the record came from the durable store.
type SchemaMetadata struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploadDate"`
}

// ValidationResult is the uniform outcome of a validation run.
// Valid is true iff Errors is empty. Each entry has the fixed shape
// "<message> (path: <instance-pointer>)". The engine reports violations in an
// unordered set, so callers must compare the error set, not the sequence.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidResult returns the success outcome with a non-nil empty error list.
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true, Errors: []string{}}
}

// InvalidResult returns a failure outcome carrying the given error strings.
func InvalidResult(errs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}
