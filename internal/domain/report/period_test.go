package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range AllPeriods() {
		got, err := ParsePeriod(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePeriod(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, got)

	_, err = ParsePeriod("fortnightly")
	assert.Error(t, err)
	_, err = ParsePeriod("")
	assert.Error(t, err)
}

func TestPeriod_PreviousRange(t *testing.T) {
	// Wednesday 2024-05-15
	now := time.Date(2024, 5, 15, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		period Period
		start  string
		end    string
	}{
		{PeriodDaily, "2024-05-14", "2024-05-14"},
		{PeriodWeekly, "2024-05-06", "2024-05-12"},
		{PeriodMonthly, "2024-04-01", "2024-04-30"},
		{PeriodQuarterly, "2024-01-01", "2024-03-31"},
		{PeriodAnnual, "2023-01-01", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r := tt.period.PreviousRange(now, time.UTC)
			require.NotNil(t, r.Start)
			require.NotNil(t, r.End)
			assert.Equal(t, tt.start, r.Start.Format("2006-01-02"))
			assert.Equal(t, tt.end, r.End.Format("2006-01-02"))
			assert.Equal(t, 23, r.End.Hour())
		})
	}
}

func TestPeriod_ClosesOn(t *testing.T) {
	monday := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) // also first of quarter
	assert.True(t, PeriodDaily.ClosesOn(monday))
	assert.True(t, PeriodWeekly.ClosesOn(monday))
	assert.True(t, PeriodMonthly.ClosesOn(monday))
	assert.True(t, PeriodQuarterly.ClosesOn(monday))
	assert.False(t, PeriodAnnual.ClosesOn(monday))

	midMay := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, PeriodWeekly.ClosesOn(midMay))
	assert.False(t, PeriodMonthly.ClosesOn(midMay))
}
