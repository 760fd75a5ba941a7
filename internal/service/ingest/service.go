package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Options struct {
	WriteRetries  int           // attempts per record, at least 1
	WriteInterval time.Duration // wait between attempts
	FileInterval  time.Duration // minimum spacing between files, 0 disables pacing
}

// FileStats counts what happened to the registros of one snapshot file.
type FileStats struct {
	File     string
	Created  int
	Existing int // already stored, left untouched
	Skipped  int // registros that could not become a record
	Failed   int // writes that kept failing after every retry
	Err      error
}

type Summary struct {
	RunID string
	Files []FileStats
}

func (s Summary) Totals() FileStats {
	var t FileStats
	for _, f := range s.Files {
		t.Created += f.Created
		t.Existing += f.Existing
		t.Skipped += f.Skipped
		t.Failed += f.Failed
	}
	return t
}

type Service struct {
	files   storage.FileStorage
	repo    payroll.RecordRepository
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewService(files storage.FileStorage, repo payroll.RecordRepository, opts Options, logger *slog.Logger) *Service {
	if opts.WriteRetries < 1 {
		opts.WriteRetries = 1
	}
	limit := rate.Inf
	if opts.FileInterval > 0 {
		limit = rate.Every(opts.FileInterval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		files:   files,
		repo:    repo,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// LoadAll loads every snapshot file in storage. A file that cannot be read or parsed is
// reported in its FileStats and the run moves on.
func (s *Service) LoadAll(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := s.logger.With("run_id", summary.RunID)

	names, err := s.files.List(ctx, ".json")
	if err != nil {
		return summary, err
	}
	log.Info("load started", "files", len(names))

	for _, name := range names {
		if err := s.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		stats, err := s.LoadFile(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error("failed to load snapshot", "file", name, "error", err)
			stats.Err = err
		} else {
			log.Info("snapshot loaded",
				"file", name,
				"created", stats.Created,
				"existing", stats.Existing,
				"skipped", stats.Skipped,
				"failed", stats.Failed,
			)
		}
		summary.Files = append(summary.Files, stats)
	}

	t := summary.Totals()
	log.Info("load finished", "created", t.Created, "existing", t.Existing, "skipped", t.Skipped, "failed", t.Failed)
	return summary, nil
}

// LoadFile turns one snapshot file into records and writes them.
func (s *Service) LoadFile(ctx context.Context, name string) (FileStats, error) {
	stats := FileStats{File: name}

	month, unitCode, err := payroll.ParseSnapshotFileName(name)
	if err != nil {
		return stats, err
	}

	rc, err := s.files.Download(ctx, name)
	if err != nil {
		return stats, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", name, err)
	}

	snapshot, err := payroll.DecodeSnapshot(data)
	if err != nil {
		return stats, err
	}

	records, skipped := snapshot.Records(month, unitCode)
	for _, sk := range skipped {
		s.logger.Warn("registro skipped", "file", name, "index", sk.Index, "reason", sk.Reason)
	}
	stats.Skipped = len(skipped)

	for _, rec := range records {
		err := s.write(ctx, rec)
		switch {
		case err == nil:
			stats.Created++
		case errors.Is(err, payroll.ErrRecordExists):
			stats.Existing++
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			s.logger.Error("failed to store record",
				"file", name,
				"matricula", rec.PartitionKey,
				"period", rec.RowKey,
				"error", err,
			)
			stats.Failed++
		}
	}

	return stats, nil
}

// write tries CreateRecord up to WriteRetries times. ErrRecordExists is final.
func (s *Service) write(ctx context.Context, rec payroll.Record) error {
	var err error
	for attempt := 1; attempt <= s.opts.WriteRetries; attempt++ {
		err = s.repo.CreateRecord(ctx, rec)
		if err == nil || errors.Is(err, payroll.ErrRecordExists) {
			return err
		}
		if attempt == s.opts.WriteRetries {
			break
		}

		s.logger.Debug("retrying record write", "matricula", rec.PartitionKey, "period", rec.RowKey, "attempt", attempt, "error", err)
		timer := time.NewTimer(s.opts.WriteInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("after %d attempts: %w", s.opts.WriteRetries, err)
}
