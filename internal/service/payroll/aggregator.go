package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/orderedmap"
	"github.com/shopspring/decimal"
)

// firstValue keeps the first non-empty value offered to it.
type firstValue struct {
	value string
	set   bool
}

func (f *firstValue) offer(v string) {
	if f.set || v == "" {
		return
	}
	f.value = v
	f.set = true
}

// Aggregate groups the payment events of the fetched records by denomination.
//
// Records are scanned in the given order, then payslip entries, then events, so group
// and summary order is the order in which each denomination was first seen. Employee
// name and admission date come from the first record that supplies them.
// It returns ErrNoData for an empty input and aborts on the first malformed document.
func Aggregate(records []payroll.Record, employeeID, startDate, endDate string) (payroll.Report, error) {
	if len(records) == 0 {
		return payroll.Report{}, payroll.ErrNoData
	}

	groups := orderedmap.New[string, *payroll.EventGroup]()
	var name, admission firstValue

	for _, rec := range records {
		doc, err := payroll.DecodeDocument(rec)
		if err != nil {
			return payroll.Report{}, err
		}
		name.offer(doc.Employee.Name)
		admission.offer(doc.Employee.AdmissionDate)

		for _, entry := range doc.Payslips {
			for _, event := range entry.Events {
				group := groups.GetOrCreate(event.Denomination, func() *payroll.EventGroup {
					return &payroll.EventGroup{Denomination: event.Denomination, Items: []payroll.LineItem{}}
				})
				group.Items = append(group.Items, payroll.LineItem{
					Date:            entry.Date,
					ReferenceValue:  event.ReferenceValue,
					Amount:          event.SignedAmount(),
					Divisor:         entry.History.MonthlyHours,
					CalculationType: entry.CalculationType.Denomination,
				})
			}
		}
	}

	report := payroll.Report{
		Employee: payroll.EmployeeSummary{
			EmployeeID:    employeeID,
			Name:          name.value,
			AdmissionDate: admission.value,
			StartDate:     startDate,
			EndDate:       endDate,
		},
		Groups:  make([]payroll.EventGroup, 0, groups.Len()),
		Summary: make([]payroll.SummaryRow, 0, groups.Len()),
	}

	periodLabel := fmt.Sprintf("%s até %s", startDate, endDate)
	for denomination, group := range groups.All() {
		total := decimal.Zero
		for _, item := range group.Items {
			total = total.Add(item.Amount)
		}
		report.Groups = append(report.Groups, *group)
		report.Summary = append(report.Summary, payroll.SummaryRow{
			Denomination:  denomination,
			Count:         len(group.Items),
			Total:         total,
			Period:        periodLabel,
			EmployeeID:    employeeID,
			EmployeeName:  name.value,
			AdmissionDate: admission.value,
		})
	}

	return report, nil
}
