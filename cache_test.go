package sched

import (
	"context"
	"testing"
	"time"

	_const "github.com/TimeWtr/sched/const"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConcurrentJobHeap(t *testing.T) {
	fc, steward := newFakeSteward(at(10, 59, 30))
	noop := TaskFunc(func(ctx context.Context) error { return nil })
	opts := []JobOption{WithSteward(steward), WithSequence(NewSequence())}

	t1 := MustNewJob(noop, _const.Hour, 1, _const.Second, 0, append(opts, WithName("t1"))...)
	t2, err := NewIntervalJob(noop, _const.Minute, 1, append(opts, WithName("t2"))...)
	require.NoError(t, err)
	t3, err := NewOneShotJob(noop, 13*time.Second, append(opts, WithName("t3"))...)
	require.NoError(t, err)
	t4, err := NewOneShotJob(noop, 30*time.Second, append(opts, WithName("t4"))...)
	require.NoError(t, err)

	h := NewConcurrentJobHeap(4)
	for _, j := range []Job{t1, t2, t3, t4} {
		h.Push(j)
	}
	assert.Equal(t, 4, h.Len())
	assert.Equal(t, "t3", h.Peek().Name())

	// 还没有到期
	assert.False(t, h.CheckExistExecJob(fc.Now()))
	assert.Nil(t, h.PopDue(fc.Now()))

	fc.Advance(13 * time.Second)
	require.True(t, h.CheckExistExecJob(fc.Now()))
	assert.Equal(t, "t3", h.PopDue(fc.Now()).Name())

	var names []string
	for !h.Empty() {
		names = append(names, h.Pop().Name())
	}
	assert.Equal(t, []string{"t4", "t2", "t1"}, names)
	assert.Nil(t, h.Pop())
}

func TestConcurrentJobHeapRemove(t *testing.T) {
	_, steward := newFakeSteward(at(10, 0, 0))
	noop := TaskFunc(func(ctx context.Context) error { return nil })

	h := NewConcurrentJobHeap(8)
	var jobs []Job
	for i := 1; i <= 5; i++ {
		j, err := NewOneShotJob(noop, time.Duration(i)*time.Second, WithSteward(steward))
		require.NoError(t, err)
		jobs = append(jobs, j)
		h.Push(j)
	}

	assert.True(t, h.Remove(jobs[2].ID()))
	assert.False(t, h.Remove(jobs[2].ID()))
	assert.Equal(t, 4, h.Len())

	var got []uint64
	for j := h.Pop(); j != nil; j = h.Pop() {
		got = append(got, j.ID())
	}
	assert.Equal(t, []uint64{jobs[0].ID(), jobs[1].ID(), jobs[3].ID(), jobs[4].ID()}, got)
}

func TestLocalCache(t *testing.T) {
	c := NewLocalCache(2)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	c.Del("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}
