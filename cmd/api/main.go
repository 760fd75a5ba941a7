package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-transparency/internal/handler/http"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository"
	payrollService "github.com/cmlabs-hris/payroll-transparency/internal/service/payroll"
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

	log := logger.New(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordRepo, closeStore, err := repository.OpenRecordRepository(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open record store", "error", err)
		return 1
	}
	defer closeStore()

	reportService := payrollService.NewReportService(recordRepo, payrollService.NewSpreadsheetRenderer(), log)
	reportHandler := appHTTP.NewReportHandler(reportService, log)
	router := appHTTP.NewRouter(cfg.App, log, reportHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server running", "addr", server.Addr, "store", cfg.Store.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}
