package spreadsheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrSheetNameConflict = errors.New("sheet name conflict")

// ConflictError reports two labels that map to the same sheet name.
type ConflictError struct {
	SheetName string
	First     string
	Second    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sheet name conflict: %q and %q both map to sheet %q", e.First, e.Second, e.SheetName)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSheetNameConflict
}

// Sheet is one worksheet: a header row followed by data rows.
// Label is the unsanitized name; the written name is SanitizeSheetName(Label).
type Sheet struct {
	Label  string
	Header []string
	Rows   [][]any
}

// Workbook writes the sheets, in order, into an xlsx document.
// Sheet names are compared case-insensitively, as spreadsheet applications do.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("workbook needs at least one sheet")
	}

	names := make([]string, len(sheets))
	seen := make(map[string]string, len(sheets))
	for i, sh := range sheets {
		name := SanitizeSheetName(sh.Label)
		key := strings.ToLower(name)
		if first, ok := seen[key]; ok {
			return nil, &ConflictError{SheetName: name, First: first, Second: sh.Label}
		}
		seen[key] = sh.Label
		names[i] = name
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), names[0]); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", names[0], err)
			}
		} else if _, err := f.NewSheet(names[i]); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", names[i], err)
		}

		if err := writeRows(f, names[i], sh); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, name string, sh Sheet) error {
	header := make([]any, len(sh.Header))
	for i, h := range sh.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of sheet %q: %w", name, err)
	}

	for r, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", r+1, name, err)
		}
	}
	return nil
}
