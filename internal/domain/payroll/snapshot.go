package payroll

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/period"
)

const snapshotPrefix = "pessoal_itajai_"

// PersonnelSnapshot is one response of the portal's personnel endpoint.
type PersonnelSnapshot struct {
	Entries     []SnapshotEntry `json:"registros"`
	Information json.RawMessage `json:"informacao,omitempty"`
	LastUpdate  json.RawMessage `json:"ultimaAtualizacao,omitempty"`
}

type SnapshotEntry struct {
	Document json.RawMessage `json:"registro"`
}

// SnapshotFileName names the stored snapshot of a month and unit; unit 0 means all units.
func SnapshotFileName(m period.Month, unitCode int) string {
	name := snapshotPrefix + m.Key()
	if unitCode > 0 {
		name += fmt.Sprintf("_unidade_%d", unitCode)
	}
	return name + ".json"
}

// ParseSnapshotFileName recovers the month and unit code from a snapshot file name.
func ParseSnapshotFileName(name string) (period.Month, int, error) {
	base := strings.TrimSuffix(filepath.Base(name), ".json")
	parts := strings.Split(base, "_")
	if len(parts) < 4 {
		return period.Month{}, 0, fmt.Errorf("%w: unexpected file name %q", ErrInvalidSnapshot, name)
	}
	m, err := period.ParseReference(parts[2] + "/" + parts[3])
	if err != nil {
		return period.Month{}, 0, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	unitCode := 0
	if _, after, ok := strings.Cut(base, "_unidade_"); ok {
		unitCode, err = strconv.Atoi(after)
		if err != nil {
			return period.Month{}, 0, fmt.Errorf("%w: invalid unit code in %q", ErrInvalidSnapshot, name)
		}
	}
	return m, unitCode, nil
}

// DecodeSnapshot parses a personnel snapshot. A payload without "registros" is invalid.
func DecodeSnapshot(data []byte) (PersonnelSnapshot, error) {
	var snap PersonnelSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return PersonnelSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Entries == nil {
		return PersonnelSnapshot{}, fmt.Errorf("%w: missing registros", ErrInvalidSnapshot)
	}
	return snap, nil
}

// SkippedEntry describes a snapshot entry that could not become a record.
type SkippedEntry struct {
	Index  int
	Reason string
}

// Records converts the snapshot entries of a month into store records.
// Entries without a document or a matrícula number are returned as skipped.
func (s PersonnelSnapshot) Records(m period.Month, unitCode int) ([]Record, []SkippedEntry) {
	info := rawText(s.Information)
	lastUpdate := rawText(s.LastUpdate)

	records := make([]Record, 0, len(s.Entries))
	var skipped []SkippedEntry
	for i, entry := range s.Entries {
		if len(entry.Document) == 0 || string(entry.Document) == "null" {
			skipped = append(skipped, SkippedEntry{Index: i, Reason: "missing registro"})
			continue
		}

		var head struct {
			Employee *struct {
				Number FlexString `json:"numero"`
			} `json:"matricula"`
		}
		if err := json.Unmarshal(entry.Document, &head); err != nil {
			skipped = append(skipped, SkippedEntry{Index: i, Reason: err.Error()})
			continue
		}
		if head.Employee == nil || head.Employee.Number == "" {
			skipped = append(skipped, SkippedEntry{Index: i, Reason: "missing matricula number"})
			continue
		}

		records = append(records, Record{
			PartitionKey: head.Employee.Number.String(),
			RowKey:       m.Key(),
			Reference:    m.Reference(),
			UnitCode:     unitCode,
			Information:  info,
			LastUpdate:   lastUpdate,
			DocumentJSON: string(entry.Document),
		})
	}
	return records, skipped
}

// rawText returns JSON strings unquoted and any other JSON value verbatim.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
