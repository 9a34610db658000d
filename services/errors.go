package services

// ValidationError wraps input that failed the record invariants.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid health record: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
