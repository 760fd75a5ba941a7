package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
)

// Fetcher reads the stored records of one employee for a list of periods.
type Fetcher struct {
	repo   payroll.RecordRepository
	logger *slog.Logger
}

func NewFetcher(repo payroll.RecordRepository, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{repo: repo, logger: logger}
}

// Fetch returns the records found for employeeID, in the order of periodKeys.
// A period that cannot be fetched is logged and left out; it never aborts the rest.
func (f *Fetcher) Fetch(ctx context.Context, employeeID string, periodKeys []string) []payroll.Record {
	records := make([]payroll.Record, 0, len(periodKeys))
	for _, key := range periodKeys {
		rec, err := f.repo.GetRecord(ctx, employeeID, key)
		if err != nil {
			if errors.Is(err, payroll.ErrRecordNotFound) {
				f.logger.Debug("payroll record not found", "matricula", employeeID, "period", key)
			} else {
				f.logger.Error("failed to fetch payroll record", "matricula", employeeID, "period", key, "error", err)
			}
			continue
		}
		records = append(records, rec)
	}
	return records
}
