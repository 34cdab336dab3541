package model

// FieldError records a validation failure for a specific field path
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// FieldNote records informational context for a field; notes never affect
// validity
type FieldNote struct {
	Field string `json:"field"`
	Note  string `json:"note"`
}

// ValidationOutcome is the reconciler's verdict on an extraction.
// Valid is true iff Errors is empty.
type ValidationOutcome struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
	Notes  []FieldNote  `json:"notes"`
}

// AddError appends an error to the outcome and clears the valid flag
func (o *ValidationOutcome) AddError(field, msg string) {
	o.Errors = append(o.Errors, FieldError{Field: field, Error: msg})
	o.Valid = false
}

// AddNote appends an informational note to the outcome
func (o *ValidationOutcome) AddNote(field, note string) {
	o.Notes = append(o.Notes, FieldNote{Field: field, Note: note})
}

// NewValidationOutcome returns an outcome that starts valid with empty lists
func NewValidationOutcome() *ValidationOutcome {
	return &ValidationOutcome{
		Valid:  true,
		Errors: []FieldError{},
		Notes:  []FieldNote{},
	}
}
