// Package validation provides input validation utilities.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for configuration structs.
//
// # Struct Tag Validation
//
//	type Job struct {
//	    Binary string `validate:"required"`
//	    Shell  string `validate:"required,min=1"`
//	}
//	err := validation.Validate(job)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("binary", binary)
//	err := v.Error()
package validation
