package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/transparency"
	"github.com/cmlabs-hris/payroll-transparency/internal/service/scrape"
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

	start := flag.String("start", "", "first reference month, MM/YYYY")
	end := flag.String("end", "", "last reference month, MM/YYYY")
	unit := flag.Int("unit", 0, "unit code, 0 for every unit")
	dir := flag.String("dir", cfg.Ingest.SnapshotDir, "directory to save snapshots to")
	resume := flag.Bool("resume", false, "skip months whose snapshot is already in -dir")
	flag.Parse()

	startMonth, err := period.ParseReference(*start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start, expected MM/YYYY:", *start)
		return 2
	}
	endMonth, err := period.ParseReference(*end)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -end, expected MM/YYYY:", *end)
		return 2
	}
	if *unit < 0 {
		fmt.Fprintln(os.Stderr, "-unit must not be negative")
		return 2
	}

	log := logger.New(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := storage.NewLocalStorage(*dir)
	if err != nil {
		log.Error("failed to open snapshot directory", "error", err)
		return 1
	}

	svc := scrape.NewService(transparency.NewClient(cfg.Transparency), files, cfg.Transparency.ScrapeInterval, log)
	result, err := svc.Run(ctx, scrape.Request{
		Start:        startMonth,
		End:          endMonth,
		UnitCode:     *unit,
		SkipExisting: *resume,
	})
	if err != nil {
		log.Error("scrape aborted", "error", err)
		return 1
	}

	fmt.Printf("saved %d snapshot(s) to %s, skipped %d, %d month(s) failed\n",
		len(result.Saved), *dir, len(result.Skipped), len(result.Failed))
	if len(result.Failed) > 0 {
		return 1
	}
	return 0
}
