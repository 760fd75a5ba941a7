package payroll

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ========== REQUEST DTOs ==========

type ReportRequest struct {
	EmployeeID string `json:"matricula"`
	StartDate  string `json:"start_date"` // DD/MM/YYYY
	EndDate    string `json:"end_date"`   // DD/MM/YYYY
}

// Missing reports whether any of the three query parameters is absent.
func (r *ReportRequest) Missing() bool {
	return validator.IsEmpty(r.EmployeeID) || validator.IsEmpty(r.StartDate) || validator.IsEmpty(r.EndDate)
}

// Normalize trims the request fields in place. Stored keys never carry surrounding spaces.
func (r *ReportRequest) Normalize() {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

// Validate checks presence and format. The end month may not precede the start month;
// the day of month does not take part in the comparison.
func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "matricula", Message: "is required"})
	}

	start, startErr := period.ParseDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "is required"})
	} else if startErr != nil {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be DD/MM/YYYY"})
	}

	end, endErr := period.ParseDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "is required"})
	} else if endErr != nil {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be DD/MM/YYYY"})
	}

	if startErr == nil && endErr == nil && period.MonthOf(start).After(period.MonthOf(end)) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be in a month before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PeriodKeys returns the row keys covered by the request. Call Validate first.
func (r *ReportRequest) PeriodKeys() ([]string, error) {
	start, err := period.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := period.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	return period.Range(start, end), nil
}

// FileName is the download name of the spreadsheet artifact.
func (r *ReportRequest) FileName() string {
	return fmt.Sprintf("registros_matricula_%s_%s_a_%s.xlsx",
		strings.TrimSpace(r.EmployeeID),
		strings.ReplaceAll(strings.TrimSpace(r.StartDate), "/", "-"),
		strings.ReplaceAll(strings.TrimSpace(r.EndDate), "/", "-"),
	)
}

// ========== REPORT DTOs ==========

// LineItem is one payment event of one payslip entry, sign-adjusted.
type LineItem struct {
	Date            string          `json:"data"`
	ReferenceValue  decimal.Decimal `json:"referencia"`
	Amount          decimal.Decimal `json:"valor"`
	Divisor         decimal.Decimal `json:"divisor"`
	CalculationType string          `json:"tipo_calculo"`
}

// EventGroup holds every line item sharing a denomination, in encounter order.
type EventGroup struct {
	Denomination string     `json:"evento"`
	Items        []LineItem `json:"registros"`
}

type SummaryRow struct {
	Denomination  string          `json:"evento"`
	Count         int             `json:"total_registros"`
	Total         decimal.Decimal `json:"valor_total"`
	Period        string          `json:"periodo"`
	EmployeeID    string          `json:"matricula"`
	EmployeeName  string          `json:"nome"`
	AdmissionDate string          `json:"data_admissao"`
}

type EmployeeSummary struct {
	EmployeeID    string `json:"matricula"`
	Name          string `json:"nome"`
	AdmissionDate string `json:"data_admissao"`
	StartDate     string `json:"data_inicio"`
	EndDate       string `json:"data_fim"`
}

// Report is the aggregation result for one employee and date range.
// Groups and Summary share the same first-seen denomination order.
type Report struct {
	Employee EmployeeSummary `json:"resumo"`
	Groups   []EventGroup    `json:"eventos"`
	Summary  []SummaryRow    `json:"sumario"`
}

type ReportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
