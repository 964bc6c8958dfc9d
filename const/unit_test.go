package _const

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitSpan(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		unit  Unit
		count int
		loc   *time.Location
		want  time.Duration
	}{
		{name: "milliseconds", unit: Millisecond, count: 250, want: 250 * time.Millisecond},
		{name: "seconds", unit: Second, count: 15, want: 15 * time.Second},
		{name: "minutes", unit: Minute, count: 5, want: 5 * time.Minute},
		{name: "hours", unit: Hour, count: 2, want: 2 * time.Hour},
		{name: "day", unit: Day, count: 1, want: 24 * time.Hour},
		{name: "day in chicago", unit: Day, count: 1, loc: chicago, want: 24 * time.Hour},
		{name: "week", unit: Week, count: 1, want: 7 * 24 * time.Hour},
		{name: "january", unit: Month, count: 1, want: 31 * 24 * time.Hour},
		{name: "two months", unit: Month, count: 2, want: 59 * 24 * time.Hour},
		{name: "year", unit: Year, count: 1, want: 365 * 24 * time.Hour},
		{name: "zero", unit: Hour, count: 0, want: 0},
		{name: "unknown", unit: Unit(0), count: 1, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.unit.Span(tc.count, tc.loc))
		})
	}
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "hour", Hour.String())
	assert.Equal(t, "Unit(42)", Unit(42).String())
	assert.True(t, Year.Valid())
	assert.False(t, Unit(0).Valid())
	assert.Equal(t, "Failed", RunStatusFailed.String())
}
