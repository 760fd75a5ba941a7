package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS payroll_records (
		partition_key      TEXT        NOT NULL,
		row_key            TEXT        NOT NULL,
		referencia         TEXT        NOT NULL DEFAULT '',
		codigo_unidade     INTEGER     NOT NULL DEFAULT 0,
		informacao         TEXT        NOT NULL DEFAULT '',
		ultima_atualizacao TEXT        NOT NULL DEFAULT '',
		dados_json         JSONB       NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (partition_key, row_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_records_referencia ON payroll_records (referencia)`,
}

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) payroll.RecordRepository {
	return &recordRepository{db: db}
}

// EnsureSchema creates the payroll_records table and its indexes.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

func (r *recordRepository) GetRecord(ctx context.Context, partitionKey, rowKey string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT partition_key, row_key, referencia, codigo_unidade,
			   informacao, ultima_atualizacao, dados_json::text
		FROM payroll_records
		WHERE partition_key = $1 AND row_key = $2
	`

	var rec payroll.Record
	err := q.QueryRow(ctx, query, partitionKey, rowKey).Scan(
		&rec.PartitionKey, &rec.RowKey, &rec.Reference, &rec.UnitCode,
		&rec.Information, &rec.LastUpdate, &rec.DocumentJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *recordRepository) CreateRecord(ctx context.Context, rec payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			partition_key, row_key, referencia, codigo_unidade,
			informacao, ultima_atualizacao, dados_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
	`

	_, err := q.Exec(ctx, query,
		rec.PartitionKey, rec.RowKey, rec.Reference, rec.UnitCode,
		rec.Information, rec.LastUpdate, rec.DocumentJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return payroll.ErrRecordExists
		}
		return fmt.Errorf("failed to create payroll record: %w", err)
	}

	return nil
}
