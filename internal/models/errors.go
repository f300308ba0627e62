package models

import "errors"

// Error kinds shared by all components. Wrap them with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotFound             = errors.New("not found")
	ErrDimensionMismatch    = errors.New("vector dimension mismatch")
	ErrExternalCapability   = errors.New("external capability failed")
	ErrPersistence          = errors.New("persistence failed")
	ErrParse                = errors.New("parse error")
)
