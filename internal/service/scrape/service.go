package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// PersonnelSource is the portal API as the scraper sees it.
type PersonnelSource interface {
	FetchPersonnel(ctx context.Context, reference string, unitCode int) ([]byte, error)
}

type Request struct {
	Start    period.Month
	End      period.Month
	UnitCode int // 0 fetches every unit
	// SkipExisting leaves months whose snapshot file is already stored untouched.
	SkipExisting bool
}

type Result struct {
	RunID  string
	Saved   []string
	Skipped []string // files already stored, with SkipExisting
	Failed  []string // references that could not be fetched or saved
}

type Service struct {
	source  PersonnelSource
	files   storage.FileStorage
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewService paces months at most one per interval. A zero interval disables pacing.
func NewService(source PersonnelSource, files storage.FileStorage, interval time.Duration, logger *slog.Logger) *Service {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:  source,
		files:   files,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Run downloads one snapshot per month from req.Start to req.End inclusive. A month
// that fails is logged and recorded in Result.Failed; only cancellation stops the run.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	if req.Start.After(req.End) {
		return Result{}, fmt.Errorf("start %s is after end %s", req.Start.Reference(), req.End.Reference())
	}

	result := Result{RunID: uuid.NewString()}
	log := s.logger.With("run_id", result.RunID, "unit", req.UnitCode)
	log.Info("scrape started", "start", req.Start.Reference(), "end", req.End.Reference())

	for _, m := range period.Months(req.Start, req.End) {
		if req.SkipExisting {
			name := payroll.SnapshotFileName(m, req.UnitCode)
			exists, err := s.files.Exists(ctx, name)
			if err != nil {
				log.Error("failed to check snapshot", "reference", m.Reference(), "error", err)
				result.Failed = append(result.Failed, m.Reference())
				continue
			}
			if exists {
				log.Debug("snapshot already stored", "reference", m.Reference(), "file", name)
				result.Skipped = append(result.Skipped, name)
				continue
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return result, err
		}

		name, err := s.scrapeMonth(ctx, m, req.UnitCode)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Error("failed to scrape month", "reference", m.Reference(), "error", err)
			result.Failed = append(result.Failed, m.Reference())
			continue
		}

		log.Info("snapshot saved", "reference", m.Reference(), "file", name)
		result.Saved = append(result.Saved, name)
	}

	log.Info("scrape finished", "saved", len(result.Saved), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

func (s *Service) scrapeMonth(ctx context.Context, m period.Month, unitCode int) (string, error) {
	body, err := s.source.FetchPersonnel(ctx, m.Reference(), unitCode)
	if err != nil {
		return "", err
	}

	snapshot, err := payroll.DecodeSnapshot(body)
	if err != nil {
		return "", err
	}
	if len(snapshot.Entries) == 0 {
		s.logger.Warn("snapshot has no registros", "reference", m.Reference())
	}

	return s.files.Upload(ctx, bytes.NewReader(body), payroll.SnapshotFileName(m, unitCode))
}
