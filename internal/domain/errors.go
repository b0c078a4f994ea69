package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrRecordNotFound  = errors.New("dns record not found")
	ErrZoneNotFound    = errors.New("zone not found")
	ErrInvalidRecord   = errors.New("invalid dns record")
	ErrDuplicateRecord = errors.New("dns record already exists")
)

// InvalidRecordError carries the specific constraint violations found by the
// record validator. It unwraps to ErrInvalidRecord so callers can match with
// errors.Is.
type InvalidRecordError struct {
	Violations Violations
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid dns record: %s", e.Violations)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}
