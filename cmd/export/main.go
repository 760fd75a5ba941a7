package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository"
	"github.com/cmlabs-hris/payroll-transparency/internal/service/export"
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

	matricula := flag.String("matricula", "", "employee matrícula")
	start := flag.String("start", "", "start date, DD/MM/YYYY")
	end := flag.String("end", "", "end date, DD/MM/YYYY")
	out := flag.String("out", "registros.csv", "output CSV path")
	flag.Parse()

	log := logger.New(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordRepo, closeStore, err := repository.OpenRecordRepository(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open record store", "error", err)
		return 1
	}
	defer closeStore()

	req := payroll.ReportRequest{EmployeeID: *matricula, StartDate: *start, EndDate: *end}
	n, err := export.NewService(recordRepo, log).ExportFile(ctx, req, *out)

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for field, msg := range verrs.ToMap() {
			fmt.Fprintf(os.Stderr, "-%s: %s\n", flagName(field), msg)
		}
		return 2
	case errors.Is(err, payroll.ErrNoData):
		fmt.Println("no records found for the given matrícula and period")
	case err != nil:
		log.Error("export failed", "error", err)
		return 1
	default:
		fmt.Printf("%d record(s) written to %s\n", n, *out)
	}
	return 0
}

func flagName(field string) string {
	switch field {
	case "start_date":
		return "start"
	case "end_date":
		return "end"
	default:
		return field
	}
}
