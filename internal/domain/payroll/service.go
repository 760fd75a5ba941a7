package payroll

import "context"

type ReportService interface {
	// BuildReport fetches and aggregates the employee's records for the range.
	BuildReport(ctx context.Context, req ReportRequest) (Report, error)

	// ExportReport builds the report and renders it as a spreadsheet.
	ExportReport(ctx context.Context, req ReportRequest) (ReportFile, error)
}

// ReportRenderer turns a report into a binary spreadsheet.
type ReportRenderer interface {
	Render(report Report) ([]byte, error)
}
