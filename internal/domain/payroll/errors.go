package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("payroll record not found")
	ErrRecordExists      = errors.New("payroll record already exists")
	ErrNoData            = errors.New("no payroll records found for the requested period")
	ErrMalformedDocument = errors.New("malformed payroll document")
	ErrInvalidSnapshot   = errors.New("invalid personnel snapshot")
)

// MalformedDocumentError names the stored document that failed to decode or validate.
type MalformedDocumentError struct {
	EmployeeID string
	Period     string
	Err        error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed payroll document (matricula %s, period %s): %v", e.EmployeeID, e.Period, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}
