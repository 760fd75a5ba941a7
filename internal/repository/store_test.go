package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOpenRecordRepository_RejectsIncompleteConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := map[string]*config.Config{
		"azure without connection string": {Store: config.StoreConfig{Backend: config.StoreAzure, AzureTableName: "RegistrosTabela"}},
		"postgres without password":       {Store: config.StoreConfig{Backend: config.StorePostgres}},
		"unknown backend":                 {Store: config.StoreConfig{Backend: "sqlite"}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			repo, closeFn, err := OpenRecordRepository(context.Background(), cfg, logger)
			assert.Error(t, err)
			assert.Nil(t, repo)
			assert.Nil(t, closeFn)
		})
	}
}
