package sched

import (
	"cmp"
	"time"

	_const "github.com/TimeWtr/sched/const"
)

// Schedule Job的调度时间信息
// 周期任务的下次执行时间总是对齐到纪元起点计算出的周期边界（再加上偏移），
// 所以周期和偏移相同的两个Job无论何时创建，都会在同一时刻触发。
type Schedule struct {
	// id 全局唯一编号，只用于排序时的最终比较
	id uint64
	// next 下次执行的时间，毫秒精度
	next time.Time
	// interval 执行周期，0表示只执行一次
	interval time.Duration
	// offset 相对周期边界的偏移，例如每小时的第15分钟
	offset time.Duration
	// missed 累计错过执行的次数
	missed uint64
}

// NewPeriodicSchedule 创建周期调度
// 条件：
// 1. 周期和偏移的数量不能为负数；
// 2. 周期必须大于0，偏移必须小于周期。
func NewPeriodicSchedule(now time.Time, iUnit _const.Unit, i int,
	oUnit _const.Unit, o int, seq *Sequence) (*Schedule, error) {
	if !iUnit.Valid() || !oUnit.Valid() {
		return nil, contractViolation("unknown unit: interval %s, offset %s", iUnit, oUnit)
	}
	if i < 0 || o < 0 {
		return nil, contractViolation("negative count: interval %d, offset %d", i, o)
	}

	loc := now.Location()
	interval := iUnit.Span(i, loc).Truncate(time.Millisecond)
	offset := oUnit.Span(o, loc).Truncate(time.Millisecond)
	if interval <= 0 {
		return nil, contractViolation("interval must be positive: %d %s", i, iUnit)
	}
	if offset >= interval {
		return nil, contractViolation("offset %s must be less than interval %s", offset, interval)
	}

	return newPeriodicSchedule(now, interval, offset, seq)
}

func newPeriodicSchedule(now time.Time, interval, offset time.Duration, seq *Sequence) (*Schedule, error) {
	if interval < time.Millisecond || offset < 0 || offset >= interval {
		return nil, contractViolation("offset %s must be in [0, interval %s)", offset, interval)
	}
	if seq == nil {
		seq = defaultSequence
	}

	s := &Schedule{
		id:       seq.Next(),
		next:     time.UnixMilli(now.UnixMilli()).In(now.Location()),
		interval: interval,
		offset:   offset,
	}
	s.Reschedule(now)
	return s, nil
}

// NewOneShotSchedule 创建只执行一次的调度，delay为0表示尽快执行
func NewOneShotSchedule(now time.Time, delay time.Duration, seq *Sequence) (*Schedule, error) {
	if delay < 0 {
		return nil, contractViolation("negative delay: %s", delay)
	}
	if seq == nil {
		seq = defaultSequence
	}

	return &Schedule{
		id:   seq.Next(),
		next: time.UnixMilli(now.UnixMilli() + delay.Milliseconds()).In(now.Location()),
	}, nil
}

// NextBoundary 计算周期边界，所有参数均为毫秒
// off = offset - zone，last为now之前（含）最近的一个周期边界，next = last + interval + off。
// 使用向下取整的除法，纪元之前的时间同样成立。
func NextBoundary(now, zone, interval, offset int64) (last, next int64) {
	off := offset - zone
	last = floorDiv(now-off, interval) * interval
	return last, last + interval + off
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Reschedule 根据now重新计算下次执行时间
// now自带的时区决定了当时生效的时区和夏令时偏移，每次调用都重新读取，
// 所以跨越夏令时切换后边界依然对齐到本地时间。
// 如果记录的下次执行时间落后了超过一个周期，返回true表示错过了执行，不做补偿。
func (s *Schedule) Reschedule(now time.Time) (missed bool) {
	if s.interval <= 0 {
		return false
	}

	_, zone := now.Zone()
	zoneMs := int64(zone) * 1000
	offsetMs := s.offset.Milliseconds()
	last, next := NextBoundary(now.UnixMilli(), zoneMs, s.interval.Milliseconds(), offsetMs)
	// last+off 是now之前（含）最近一次应当执行的时间
	missed = last+offsetMs-zoneMs > s.next.UnixMilli()
	if missed {
		s.missed++
	}
	s.next = time.UnixMilli(next).In(now.Location())
	return missed
}

func (s *Schedule) ID() uint64 {
	return s.id
}

func (s *Schedule) NextTime() time.Time {
	return s.next
}

func (s *Schedule) Interval() time.Duration {
	return s.interval
}

func (s *Schedule) Offset() time.Duration {
	return s.offset
}

// Missed 累计错过执行的次数
func (s *Schedule) Missed() uint64 {
	return s.missed
}

// Periodic 是否为周期调度
func (s *Schedule) Periodic() bool {
	return s.interval > 0
}

// Compare 排序条件：
// 1. 下次执行时间较早的在前；
// 2. 时间相同时周期较短的在前；
// 3. 周期相同时偏移较小的在前；
// 4. 最后按照创建顺序（id）。
func (s *Schedule) Compare(o *Schedule) int {
	switch {
	case s.next.Before(o.next):
		return -1
	case s.next.After(o.next):
		return 1
	}

	if c := cmp.Compare(s.interval, o.interval); c != 0 {
		return c
	}
	if c := cmp.Compare(s.offset, o.offset); c != 0 {
		return c
	}
	return cmp.Compare(s.id, o.id)
}
