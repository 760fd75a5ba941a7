package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRange_SameMonth(t *testing.T) {
	got := Range(date(2024, time.March, 5), date(2024, time.March, 28))
	assert.Equal(t, []string{"03_2024"}, got)
}

func TestRange_IgnoresDayOfMonth(t *testing.T) {
	// End day earlier than start day must still include the end month.
	got := Range(date(2024, time.January, 31), date(2024, time.March, 1))
	assert.Equal(t, []string{"01_2024", "02_2024", "03_2024"}, got)
}

func TestRange_YearRollover(t *testing.T) {
	got := Range(date(2023, time.November, 15), date(2024, time.February, 2))
	assert.Equal(t, []string{"11_2023", "12_2023", "01_2024", "02_2024"}, got)
}

func TestRange_StartAfterEnd(t *testing.T) {
	got := Range(date(2024, time.May, 1), date(2024, time.April, 30))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRange_LengthAndOrder(t *testing.T) {
	cases := []struct {
		start, end time.Time
	}{
		{date(2019, time.January, 1), date(2019, time.January, 1)},
		{date(2019, time.January, 1), date(2019, time.December, 31)},
		{date(2018, time.July, 20), date(2024, time.February, 29)},
		{date(2000, time.December, 31), date(2001, time.January, 1)},
	}
	for _, c := range cases {
		keys := Range(c.start, c.end)
		want := (c.end.Year()*12 + int(c.end.Month())) - (c.start.Year()*12 + int(c.start.Month())) + 1
		require.Len(t, keys, want)

		prev := -1
		for _, k := range keys {
			m, err := ParseKey(k)
			require.NoError(t, err)
			if prev >= 0 {
				assert.Equal(t, prev+1, m.Index(), "gap or duplicate at %s", k)
			}
			prev = m.Index()
		}
	}
}

func TestMonth_Formats(t *testing.T) {
	m := Month{Year: 2024, Month: time.February}
	assert.Equal(t, "02_2024", m.Key())
	assert.Equal(t, "02/2024", m.Reference())
	assert.Equal(t, Month{Year: 2024, Month: time.March}, m.Next())
	assert.Equal(t, Month{Year: 2025, Month: time.January}, Month{Year: 2024, Month: time.December}.Next())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("15/01/2024")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 15), got)

	for _, s := range []string{"", "2024-01-15", "32/01/2024", "15/13/2024", "1/1/2024"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "ParseDate(%q)", s)
	}
}

func TestParseReference(t *testing.T) {
	got, err := ParseReference("12/2023")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2023, Month: time.December}, got)

	_, err = ParseReference("2023/12")
	assert.Error(t, err)
}
