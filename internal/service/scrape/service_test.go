package scrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	bodies map[string]string
	calls  []string
}

func (f *fakeSource) FetchPersonnel(_ context.Context, reference string, _ int) ([]byte, error) {
	f.calls = append(f.calls, reference)
	body, ok := f.bodies[reference]
	if !ok {
		return nil, errors.New("portal unavailable")
	}
	return []byte(body), nil
}

func newTestService(t *testing.T, source PersonnelSource) (*Service, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(source, files, 0, logger), files
}

func TestRun_SavesEveryMonth(t *testing.T) {
	source := &fakeSource{bodies: map[string]string{
		"11/2023": `{"registros":[{"registro":{"matricula":{"numero":"1"}}}]}`,
		"12/2023": `{"registros":[]}`,
		"01/2024": `{"registros":[]}`,
	}}
	svc, files := newTestService(t, source)

	result, err := svc.Run(context.Background(), Request{
		Start:    period.Month{Year: 2023, Month: 11},
		End:      period.Month{Year: 2024, Month: 1},
		UnitCode: 4,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"11/2023", "12/2023", "01/2024"}, source.calls)
	assert.Equal(t, []string{
		"pessoal_itajai_11_2023_unidade_4.json",
		"pessoal_itajai_12_2023_unidade_4.json",
		"pessoal_itajai_01_2024_unidade_4.json",
	}, result.Saved)
	assert.Empty(t, result.Failed)

	names, err := files.List(context.Background(), ".json")
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestRun_FailedMonthIsSkipped(t *testing.T) {
	source := &fakeSource{bodies: map[string]string{
		"01/2024": `{"registros":[]}`,
		"02/2024": `<html>maintenance</html>`,
		"04/2024": `{"registros":[]}`,
	}}
	svc, _ := newTestService(t, source)

	result, err := svc.Run(context.Background(), Request{
		Start: period.Month{Year: 2024, Month: 1},
		End:   period.Month{Year: 2024, Month: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"pessoal_itajai_01_2024.json", "pessoal_itajai_04_2024.json"}, result.Saved)
	assert.Equal(t, []string{"02/2024", "03/2024"}, result.Failed)
}

func TestRun_StartAfterEnd(t *testing.T) {
	svc, _ := newTestService(t, &fakeSource{})
	_, err := svc.Run(context.Background(), Request{
		Start: period.Month{Year: 2024, Month: 5},
		End:   period.Month{Year: 2024, Month: 4},
	})
	assert.Error(t, err)
}

func TestRun_Canceled(t *testing.T) {
	source := &fakeSource{bodies: map[string]string{"01/2024": `{"registros":[]}`}}
	svc, _ := newTestService(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, Request{
		Start: period.Month{Year: 2024, Month: 1},
		End:   period.Month{Year: 2024, Month: 3},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.calls)
}

func TestRun_SkipExisting(t *testing.T) {
	source := &fakeSource{bodies: map[string]string{
		"01/2024": `{"registros":[]}`,
		"02/2024": `{"registros":[]}`,
	}}
	svc, files := newTestService(t, source)

	_, err := files.Upload(context.Background(), strings.NewReader(`{"registros":[]}`), "pessoal_itajai_01_2024.json")
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), Request{
		Start:        period.Month{Year: 2024, Month: 1},
		End:          period.Month{Year: 2024, Month: 2},
		SkipExisting: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"02/2024"}, source.calls)
	assert.Equal(t, []string{"pessoal_itajai_01_2024.json"}, result.Skipped)
	assert.Equal(t, []string{"pessoal_itajai_02_2024.json"}, result.Saved)
}

func TestRun_RefetchesExistingByDefault(t *testing.T) {
	source := &fakeSource{bodies: map[string]string{"01/2024": `{"registros":[]}`}}
	svc, files := newTestService(t, source)

	_, err := files.Upload(context.Background(), strings.NewReader(`{}`), "pessoal_itajai_01_2024.json")
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), Request{
		Start: period.Month{Year: 2024, Month: 1},
		End:   period.Month{Year: 2024, Month: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"01/2024"}, source.calls)
	assert.Empty(t, result.Skipped)
}
