package sched

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoundary(t *testing.T) {
	testCases := []struct {
		name         string
		expr         string
		wantInterval time.Duration
		wantOffset   time.Duration
		wantErr      error
	}{
		{name: "hourly", expr: "@hourly", wantInterval: time.Hour},
		{name: "minute past the hour", expr: "15 * * * *", wantInterval: time.Hour, wantOffset: 15 * time.Minute},
		{name: "every five minutes", expr: "*/5 * * * *", wantInterval: 5 * time.Minute},
		{name: "constant delay", expr: "@every 90s", wantInterval: 90 * time.Second},
		{name: "with seconds", expr: "30 0 3 * * *", wantInterval: 24 * time.Hour,
			wantOffset: 3*time.Hour + 30*time.Second},
		{name: "weekly from thursday epoch", expr: "@weekly", wantInterval: 7 * 24 * time.Hour,
			wantOffset: 3 * 24 * time.Hour},
		{name: "monthly", expr: "0 0 1 * *", wantErr: ErrIrregularExpr},
		{name: "weekdays", expr: "0 9 * * 1-5", wantErr: ErrIrregularExpr},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			interval, offset, err := ParseBoundary(tc.expr)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantInterval, interval)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestParseBoundaryInvalid(t *testing.T) {
	_, _, err := ParseBoundary("not a cron")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIrregularExpr))
}

func TestNewExprJob(t *testing.T) {
	_, steward := newFakeSteward(at(10, 32, 0))

	j, err := NewExprJob(TaskFunc(func(ctx context.Context) error { return nil }),
		"15 * * * *", WithSteward(steward))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, j.Interval())
	assert.Equal(t, 15*time.Minute, j.Offset())
	assert.True(t, at(11, 15, 0).Equal(j.NextTime()))

	_, err = NewExprJob(TaskFunc(func(ctx context.Context) error { return nil }),
		"0 0 1 * *", WithSteward(steward))
	assert.True(t, errors.Is(err, ErrIrregularExpr))
}
