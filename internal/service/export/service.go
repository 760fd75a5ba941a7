package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	payrollService "github.com/cmlabs-hris/payroll-transparency/internal/service/payroll"
	"github.com/gocarina/gocsv"
)

// Service dumps the raw stored records of one employee as CSV.
type Service struct {
	fetcher *payrollService.Fetcher
	logger  *slog.Logger
}

func NewService(repo payroll.RecordRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: payrollService.NewFetcher(repo, logger), logger: logger}
}

// Records returns the stored records covered by req, in period order.
func (s *Service) Records(ctx context.Context, req payroll.ReportRequest) ([]payroll.Record, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	keys, err := req.PeriodKeys()
	if err != nil {
		return nil, err
	}
	return s.fetcher.Fetch(ctx, req.EmployeeID, keys), nil
}

// WriteCSV writes the records covered by req to w and returns how many were written.
// It returns payroll.ErrNoData, writing nothing, when no period has a record.
func (s *Service) WriteCSV(ctx context.Context, req payroll.ReportRequest, w io.Writer) (int, error) {
	records, err := s.Records(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, payroll.ErrNoData
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return 0, fmt.Errorf("failed to write csv: %w", err)
	}
	return len(records), nil
}

// ExportFile writes the CSV to path. The file is only created when there is data and
// is removed again if writing it fails.
func (s *Service) ExportFile(ctx context.Context, req payroll.ReportRequest, path string) (int, error) {
	records, err := s.Records(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, payroll.ErrNoData
	}

	err = s.writeFile(path, func(w io.Writer) error {
		return gocsv.Marshal(&records, w)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("records exported", "matricula", req.EmployeeID, "count", len(records), "path", path)
	return len(records), nil
}

// writeFile creates path and fills it through write. On any failure, closing included,
// the partial file is removed.
func (s *Service) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = write(f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	} else if err != nil {
		err = fmt.Errorf("failed to write csv: %w", err)
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove partial export", "path", path, "error", rmErr)
		}
		return err
	}
	return nil
}
