package payroll

import (
	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/spreadsheet"
)

const SummarySheetName = "Resumo"

var (
	summaryHeader = []string{"Evento", "Total de Registros", "Valor Total", "Período", "Matrícula", "Nome", "Data de Admissão"}
	eventHeader   = []string{"data", "referência", "valor", "divisor", "tipo_calculo"}
)

// SpreadsheetRenderer writes the summary sheet first, then one sheet per event group
// in the report's order.
type SpreadsheetRenderer struct{}

func NewSpreadsheetRenderer() payroll.ReportRenderer {
	return SpreadsheetRenderer{}
}

func (SpreadsheetRenderer) Render(report payroll.Report) ([]byte, error) {
	sheets := make([]spreadsheet.Sheet, 0, len(report.Groups)+1)

	summary := spreadsheet.Sheet{Label: SummarySheetName, Header: summaryHeader}
	for _, row := range report.Summary {
		summary.Rows = append(summary.Rows, []any{
			row.Denomination,
			row.Count,
			row.Total.InexactFloat64(),
			row.Period,
			row.EmployeeID,
			row.EmployeeName,
			row.AdmissionDate,
		})
	}
	sheets = append(sheets, summary)

	for _, group := range report.Groups {
		sheet := spreadsheet.Sheet{Label: group.Denomination, Header: eventHeader}
		for _, item := range group.Items {
			sheet.Rows = append(sheet.Rows, []any{
				item.Date,
				item.ReferenceValue.InexactFloat64(),
				item.Amount.InexactFloat64(),
				item.Divisor.InexactFloat64(),
				item.CalculationType,
			})
		}
		sheets = append(sheets, sheet)
	}

	return spreadsheet.Workbook(sheets)
}
