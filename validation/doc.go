// Package validation provides struct tag validation for flow specs and
// engine configuration, built on the validator library.
//
//	type Spec struct {
//	    Name string `yaml:"name" validate:"required"`
//	}
//	err := validation.Validate(&spec)
package validation
