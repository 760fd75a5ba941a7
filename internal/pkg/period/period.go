package period

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the day/month/year layout accepted on the query surface.
	DateLayout = "02/01/2006"
	// ReferenceLayout is the month/year layout used by the transparency API.
	ReferenceLayout = "01/2006"
	// KeyLayout is the layout of stored period identifiers (row keys).
	KeyLayout = "01_2006"
)

// Month identifies one payroll cycle.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t. The day component is ignored.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Key formats the month as a stored period identifier, e.g. "01_2024".
func (m Month) Key() string {
	return fmt.Sprintf("%02d_%04d", int(m.Month), m.Year)
}

// Reference formats the month as the API reference, e.g. "01/2024".
func (m Month) Reference() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Index is a monotonically increasing ordinal of the month.
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// After reports whether m is a later month than o.
func (m Month) After(o Month) bool {
	return m.Index() > o.Index()
}

// Months returns every month from start through end inclusive, in chronological order.
// It returns an empty slice when start is after end.
func Months(start, end Month) []Month {
	if start.After(end) {
		return []Month{}
	}
	months := make([]Month, 0, end.Index()-start.Index()+1)
	for cur := start; !cur.After(end); cur = cur.Next() {
		months = append(months, cur)
	}
	return months
}

// Range builds the ordered period identifiers ("MM_YYYY") covering start through end.
func Range(start, end time.Time) []string {
	months := Months(MonthOf(start), MonthOf(end))
	keys := make([]string, 0, len(months))
	for _, m := range months {
		keys = append(keys, m.Key())
	}
	return keys
}

// ParseDate parses a "DD/MM/YYYY" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD/MM/YYYY", s)
	}
	return t, nil
}

// ParseReference parses a "MM/YYYY" reference.
func ParseReference(s string) (Month, error) {
	t, err := time.Parse(ReferenceLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid reference %q: expected MM/YYYY", s)
	}
	return MonthOf(t), nil
}

// ParseKey parses a "MM_YYYY" period identifier.
func ParseKey(s string) (Month, error) {
	t, err := time.Parse(KeyLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid period key %q: expected MM_YYYY", s)
	}
	return MonthOf(t), nil
}
