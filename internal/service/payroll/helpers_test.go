package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Name   string
	Amount string
	Type   string
}

type testEntry struct {
	Date   string
	Events []testEvent
}

// buildRecord serializes a payroll document the way the portal publishes it.
func buildRecord(t *testing.T, employeeID, rowKey, name, admission string, entries ...testEntry) payroll.Record {
	t.Helper()

	folha := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		events := make([]map[string]any, 0, len(e.Events))
		for _, ev := range e.Events {
			events = append(events, map[string]any{
				"denominacao":           ev.Name,
				"valorReferencia":       json.Number("1"),
				"valorEvento":           json.Number(ev.Amount),
				"tipoEventoDenominacao": ev.Type,
			})
		}
		folha = append(folha, map[string]any{
			"data":        e.Date,
			"historico":   map[string]any{"nrHorasMensais": 200},
			"tipoCalculo": map[string]any{"tipoDenominacao": "Folha Mensal"},
			"listEventos": events,
		})
	}

	doc := map[string]any{
		"matricula": map[string]any{"numero": employeeID, "nome": name, "dataAdmissao": admission},
		"listFolha": folha,
	}
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	return payroll.Record{
		PartitionKey: employeeID,
		RowKey:       rowKey,
		DocumentJSON: string(body),
	}
}

// memoryRepository is an in-memory payroll.RecordRepository.
type memoryRepository struct {
	records map[string]payroll.Record
	failing map[string]error
	gets    []string
}

func newMemoryRepository(records ...payroll.Record) *memoryRepository {
	repo := &memoryRepository{records: map[string]payroll.Record{}, failing: map[string]error{}}
	for _, r := range records {
		repo.records[r.PartitionKey+"|"+r.RowKey] = r
	}
	return repo
}

func (m *memoryRepository) GetRecord(_ context.Context, pk, rk string) (payroll.Record, error) {
	key := pk + "|" + rk
	m.gets = append(m.gets, rk)
	if err, ok := m.failing[key]; ok {
		return payroll.Record{}, err
	}
	rec, ok := m.records[key]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memoryRepository) CreateRecord(_ context.Context, rec payroll.Record) error {
	key := rec.PartitionKey + "|" + rec.RowKey
	if _, ok := m.records[key]; ok {
		return payroll.ErrRecordExists
	}
	m.records[key] = rec
	return nil
}

var errTransient = errors.New("connection reset")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keyOf(pk, rk string) string {
	return fmt.Sprintf("%s|%s", pk, rk)
}
