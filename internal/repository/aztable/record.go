package aztable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
)

// recordEntity is the table entity layout shared with the existing RegistrosTabela data.
type recordEntity struct {
	PartitionKey      string `json:"PartitionKey"`
	RowKey            string `json:"RowKey"`
	Referencia        string `json:"referencia"`
	CodigoUnidade     int32  `json:"codigo_unidade"`
	Informacao        string `json:"informacao"`
	UltimaAtualizacao string `json:"ultimaAtualizacao"`
	DadosJSON         string `json:"dados_json"`
}

type recordRepository struct {
	client *aztables.Client
}

func NewRecordRepository(client *aztables.Client) payroll.RecordRepository {
	return &recordRepository{client: client}
}

// NewClient opens the table named tableName from a storage account connection string.
func NewClient(connectionString, tableName string) (*aztables.Client, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create table service client: %w", err)
	}
	return svc.NewClient(tableName), nil
}

// EnsureTable creates the table when it does not exist yet.
func EnsureTable(ctx context.Context, client *aztables.Client) error {
	_, err := client.CreateTable(ctx, nil)
	if err != nil && !hasStatus(err, http.StatusConflict) {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (r *recordRepository) GetRecord(ctx context.Context, partitionKey, rowKey string) (payroll.Record, error) {
	resp, err := r.client.GetEntity(ctx, partitionKey, rowKey, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return decodeEntity(resp.Value)
}

func (r *recordRepository) CreateRecord(ctx context.Context, rec payroll.Record) error {
	body, err := encodeEntity(rec)
	if err != nil {
		return err
	}

	if _, err := r.client.AddEntity(ctx, body, nil); err != nil {
		if hasStatus(err, http.StatusConflict) {
			return payroll.ErrRecordExists
		}
		return fmt.Errorf("failed to create payroll record: %w", err)
	}
	return nil
}

func encodeEntity(rec payroll.Record) ([]byte, error) {
	body, err := json.Marshal(recordEntity{
		PartitionKey:      rec.PartitionKey,
		RowKey:            rec.RowKey,
		Referencia:        rec.Reference,
		CodigoUnidade:     int32(rec.UnitCode),
		Informacao:        rec.Information,
		UltimaAtualizacao: rec.LastUpdate,
		DadosJSON:         rec.DocumentJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode table entity: %w", err)
	}
	return body, nil
}

func decodeEntity(data []byte) (payroll.Record, error) {
	var e recordEntity
	if err := json.Unmarshal(data, &e); err != nil {
		return payroll.Record{}, fmt.Errorf("failed to decode table entity: %w", err)
	}
	return payroll.Record{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		Reference:    e.Referencia,
		UnitCode:     int(e.CodigoUnidade),
		Information:  e.Informacao,
		LastUpdate:   e.UltimaAtualizacao,
		DocumentJSON: e.DadosJSON,
	}, nil
}

func hasStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}
