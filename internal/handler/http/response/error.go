package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Payroll domain errors
	switch {
	case errors.Is(err, payroll.ErrNoData):
		NotFound(w, "No payroll records found for the given matricula and period")
	case errors.Is(err, payroll.ErrMalformedDocument):
		MalformedDocument(w, err.Error())
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Spreadsheet errors
	case errors.Is(err, spreadsheet.ErrSheetNameConflict):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
