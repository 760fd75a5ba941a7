package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
)

type ReportServiceImpl struct {
	fetcher  *Fetcher
	renderer payroll.ReportRenderer
	logger   *slog.Logger
}

func NewReportService(
	recordRepo payroll.RecordRepository,
	renderer payroll.ReportRenderer,
	logger *slog.Logger,
) payroll.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportServiceImpl{
		fetcher:  NewFetcher(recordRepo, logger),
		renderer: renderer,
		logger:   logger,
	}
}

// BuildReport validates the request, fetches the range and aggregates it.
func (s *ReportServiceImpl) BuildReport(ctx context.Context, req payroll.ReportRequest) (payroll.Report, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return payroll.Report{}, err
	}

	keys, err := req.PeriodKeys()
	if err != nil {
		return payroll.Report{}, err
	}

	records := s.fetcher.Fetch(ctx, req.EmployeeID, keys)
	s.logger.Info("payroll records fetched",
		"matricula", req.EmployeeID,
		"requested", len(keys),
		"found", len(records),
	)

	return Aggregate(records, req.EmployeeID, req.StartDate, req.EndDate)
}

// ExportReport builds the report and renders it as an xlsx file.
func (s *ReportServiceImpl) ExportReport(ctx context.Context, req payroll.ReportRequest) (payroll.ReportFile, error) {
	req.Normalize()
	report, err := s.BuildReport(ctx, req)
	if err != nil {
		return payroll.ReportFile{}, err
	}

	content, err := s.renderer.Render(report)
	if err != nil {
		return payroll.ReportFile{}, fmt.Errorf("failed to render payroll report: %w", err)
	}

	return payroll.ReportFile{
		FileName:    req.FileName(),
		ContentType: payroll.SpreadsheetContentType,
		Content:     content,
	}, nil
}
