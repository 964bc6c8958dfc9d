package sched

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedScheduleStrategy(t *testing.T) {
	s := NewFixedScheduleStrategy(time.Second, 2)
	for i := 0; i < 2; i++ {
		d, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, time.Second, d)
	}
	_, err := s.Next()
	assert.True(t, errors.Is(err, ErrOverMaxCount))

	// 每次创建的策略相互独立
	retry := FixedRetry(time.Second, 1)
	a, b := retry(), retry()
	_, err = a.Next()
	require.NoError(t, err)
	_, err = b.Next()
	require.NoError(t, err)
}
