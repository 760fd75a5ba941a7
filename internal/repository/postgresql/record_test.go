package postgresql_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL and starts from an empty payroll_records table.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE payroll_records")
	require.NoError(t, err)

	return db
}

func TestRecordRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRecordRepository(db)
	ctx := context.Background()

	rec := payroll.Record{
		PartitionKey: "4521",
		RowKey:       "01_2024",
		Reference:    "01/2024",
		UnitCode:     2,
		Information:  "info",
		LastUpdate:   "01/02/2024",
		DocumentJSON: `{"matricula": {"numero": "4521"}, "listFolha": []}`,
	}
	require.NoError(t, repo.CreateRecord(ctx, rec))

	got, err := repo.GetRecord(ctx, "4521", "01_2024")
	require.NoError(t, err)
	assert.Equal(t, rec.Reference, got.Reference)
	assert.Equal(t, rec.UnitCode, got.UnitCode)
	assert.JSONEq(t, rec.DocumentJSON, got.DocumentJSON)
}

func TestRecordRepository_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRecordRepository(db)
	ctx := context.Background()

	rec := payroll.Record{PartitionKey: "1", RowKey: "02_2024", DocumentJSON: "{}"}
	require.NoError(t, repo.CreateRecord(ctx, rec))

	err := repo.CreateRecord(ctx, rec)
	assert.True(t, errors.Is(err, payroll.ErrRecordExists))
}

func TestRecordRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRecordRepository(db)

	_, err := repo.GetRecord(context.Background(), "404", "01_2024")
	assert.True(t, errors.Is(err, payroll.ErrRecordNotFound))
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRecordRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		require.NoError(t, repo.CreateRecord(ctx, payroll.Record{PartitionKey: "9", RowKey: "03_2024", DocumentJSON: "{}"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetRecord(ctx, "9", "03_2024")
	assert.True(t, errors.Is(err, payroll.ErrRecordNotFound))
}
