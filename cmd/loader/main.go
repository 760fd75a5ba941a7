package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository"
	"github.com/cmlabs-hris/payroll-transparency/internal/service/ingest"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return 1
	}

	dir := flag.String("dir", cfg.Ingest.SnapshotDir, "directory with pessoal_itajai_*.json snapshots")
	file := flag.String("file", "", "load a single snapshot file from -dir")
	every := flag.Duration("every", 0, "keep running and reload the directory on this interval")
	flag.Parse()

	log := logger.New(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := storage.NewLocalStorage(*dir)
	if err != nil {
		log.Error("failed to open snapshot directory", "error", err)
		return 1
	}

	recordRepo, closeStore, err := repository.OpenRecordRepository(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open record store", "error", err)
		return 1
	}
	defer closeStore()

	svc := ingest.NewService(files, recordRepo, ingest.Options{
		WriteRetries:  cfg.Ingest.WriteRetries,
		WriteInterval: cfg.Ingest.WriteInterval,
		FileInterval:  cfg.Ingest.FileInterval,
	}, log)

	if *every > 0 {
		scheduler := cron.NewScheduler(log)
		scheduler.AddJob("load-snapshots", *every, func(ctx context.Context) error {
			_, err := svc.LoadAll(ctx)
			return err
		})
		scheduler.Start(ctx)
		<-ctx.Done()
		scheduler.Wait()
		return 0
	}

	var summary ingest.Summary
	if *file != "" {
		stats, err := svc.LoadFile(ctx, *file)
		if err != nil {
			log.Error("failed to load snapshot", "file", *file, "error", err)
			return 1
		}
		summary.Files = []ingest.FileStats{stats}
	} else {
		summary, err = svc.LoadAll(ctx)
		if err != nil {
			log.Error("load aborted", "error", err)
			return 1
		}
	}

	t := summary.Totals()
	fmt.Printf("files: %d, created: %d, existing: %d, skipped: %d, failed: %d\n",
		len(summary.Files), t.Created, t.Existing, t.Skipped, t.Failed)
	if t.Failed > 0 {
		return 1
	}
	return 0
}
