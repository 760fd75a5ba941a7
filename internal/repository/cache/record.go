package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "payroll:record"

// NewClient creates a Redis client and checks that the server answers.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	return client, nil
}

// recordRepository is a read-through cache in front of another RecordRepository.
// Stored records never change, so entries only expire by TTL. Cache failures fall back
// to the wrapped repository.
type recordRepository struct {
	next   payroll.RecordRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRecordRepository(next payroll.RecordRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) payroll.RecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func Key(partitionKey, rowKey string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, partitionKey, rowKey)
}

func (r *recordRepository) GetRecord(ctx context.Context, partitionKey, rowKey string) (payroll.Record, error) {
	key := Key(partitionKey, rowKey)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec payroll.Record
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
		r.logger.Warn("dropping undecodable cache entry", "key", key)
		_ = r.client.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("cache read failed", "key", key, "error", err)
	}

	rec, err := r.next.GetRecord(ctx, partitionKey, rowKey)
	if err != nil {
		return payroll.Record{}, err
	}

	r.store(ctx, key, rec)
	return rec, nil
}

func (r *recordRepository) CreateRecord(ctx context.Context, rec payroll.Record) error {
	if err := r.next.CreateRecord(ctx, rec); err != nil {
		return err
	}
	r.store(ctx, Key(rec.PartitionKey, rec.RowKey), rec)
	return nil
}

func (r *recordRepository) store(ctx context.Context, key string, rec payroll.Record) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
