package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	records map[string]payroll.Record
	gets    int
}

func (c *countingRepo) GetRecord(_ context.Context, pk, rk string) (payroll.Record, error) {
	c.gets++
	rec, ok := c.records[pk+"|"+rk]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return rec, nil
}

func (c *countingRepo) CreateRecord(_ context.Context, rec payroll.Record) error {
	key := rec.PartitionKey + "|" + rec.RowKey
	if _, ok := c.records[key]; ok {
		return payroll.ErrRecordExists
	}
	c.records[key] = rec
	return nil
}

func setupCache(t *testing.T) (*miniredis.Miniredis, *countingRepo, payroll.RecordRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepo{records: map[string]payroll.Record{
		"4521|01_2024": {PartitionKey: "4521", RowKey: "01_2024", Reference: "01/2024", DocumentJSON: "{}"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mr, backing, NewRecordRepository(backing, client, time.Minute, logger)
}

func TestRecordRepository_ReadThrough(t *testing.T) {
	mr, backing, repo := setupCache(t)
	ctx := context.Background()

	first, err := repo.GetRecord(ctx, "4521", "01_2024")
	require.NoError(t, err)
	assert.True(t, mr.Exists(Key("4521", "01_2024")))

	second, err := repo.GetRecord(ctx, "4521", "01_2024")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.gets)
}

func TestRecordRepository_TTL(t *testing.T) {
	mr, backing, repo := setupCache(t)
	ctx := context.Background()

	_, err := repo.GetRecord(ctx, "4521", "01_2024")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(Key("4521", "01_2024")))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetRecord(ctx, "4521", "01_2024")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.gets)
}

func TestRecordRepository_MissIsNotCached(t *testing.T) {
	mr, backing, repo := setupCache(t)
	ctx := context.Background()

	_, err := repo.GetRecord(ctx, "1", "01_2024")
	assert.True(t, errors.Is(err, payroll.ErrRecordNotFound))
	assert.False(t, mr.Exists(Key("1", "01_2024")))

	_, err = repo.GetRecord(ctx, "1", "01_2024")
	assert.True(t, errors.Is(err, payroll.ErrRecordNotFound))
	assert.Equal(t, 2, backing.gets)
}

func TestRecordRepository_CreateWarmsCache(t *testing.T) {
	mr, backing, repo := setupCache(t)
	ctx := context.Background()

	rec := payroll.Record{PartitionKey: "7", RowKey: "02_2024", DocumentJSON: "{}"}
	require.NoError(t, repo.CreateRecord(ctx, rec))
	assert.True(t, mr.Exists(Key("7", "02_2024")))

	err := repo.CreateRecord(ctx, rec)
	assert.True(t, errors.Is(err, payroll.ErrRecordExists))

	got, err := repo.GetRecord(ctx, "7", "02_2024")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 0, backing.gets)
}

func TestRecordRepository_CorruptEntryFallsBack(t *testing.T) {
	mr, backing, repo := setupCache(t)
	require.NoError(t, mr.Set(Key("4521", "01_2024"), "not json"))

	rec, err := repo.GetRecord(context.Background(), "4521", "01_2024")
	require.NoError(t, err)
	assert.Equal(t, "01/2024", rec.Reference)
	assert.Equal(t, 1, backing.gets)
}

func TestRecordRepository_RedisDown(t *testing.T) {
	mr, backing, repo := setupCache(t)
	mr.Close()

	rec, err := repo.GetRecord(context.Background(), "4521", "01_2024")
	require.NoError(t, err)
	assert.Equal(t, "01_2024", rec.RowKey)
	assert.Equal(t, 1, backing.gets)
}
