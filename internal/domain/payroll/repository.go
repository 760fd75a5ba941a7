package payroll

import "context"

// RecordRepository is the partitioned key-value store of raw payroll records.
// PartitionKey is the matrícula, RowKey the period identifier (MM_YYYY).
type RecordRepository interface {
	// GetRecord returns ErrRecordNotFound when no item is stored under the keys.
	GetRecord(ctx context.Context, partitionKey, rowKey string) (Record, error)

	// CreateRecord returns ErrRecordExists when an item is already stored under the keys.
	CreateRecord(ctx context.Context, rec Record) error
}
