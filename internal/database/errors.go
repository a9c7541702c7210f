package database

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a required field that is missing or empty on
// create or update. The write is rejected, nothing is persisted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing or empty", e.Field)
}

// DuplicateIDError reports a business id that collides with an existing row.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("id %q already exists", e.ID)
}

// DependencyExistsError reports a delete blocked by dependent rows. Count
// carries the exact number of dependents for display.
type DependencyExistsError struct {
	Entity    string
	Dependent string
	Count     int
}

func (e *DependencyExistsError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d dependent %s(s) exist", e.Entity, e.Count, e.Dependent)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkRequired validates the struct's required tags and maps the first
// failure to a ValidationError.
func checkRequired(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field()}
	}
	return fmt.Errorf("validating record: %w", err)
}
