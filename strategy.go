package sched

import (
	"time"
)

type ScheduleStrategy interface {
	Next() (time.Duration, error)
}

// RetryStrategy 为每个执行失败的一次性Job创建独立的重试策略
type RetryStrategy func() ScheduleStrategy

type FixedScheduleStrategy struct {
	// 固定时间间隔
	interval time.Duration
	// 最大调度次数
	maxCount int
	// 当前已经调度的次数
	counter int
}

func NewFixedScheduleStrategy(interval time.Duration, maxCount int) *FixedScheduleStrategy {
	return &FixedScheduleStrategy{
		interval: interval,
		maxCount: maxCount,
	}
}

// FixedRetry 每次都使用新的FixedScheduleStrategy
func FixedRetry(interval time.Duration, maxCount int) RetryStrategy {
	return func() ScheduleStrategy {
		return NewFixedScheduleStrategy(interval, maxCount)
	}
}

func (s *FixedScheduleStrategy) Next() (time.Duration, error) {
	if s.counter >= s.maxCount {
		return 0, ErrOverMaxCount
	}
	s.counter++
	return s.interval, nil
}
