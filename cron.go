package sched

import (
	"time"

	_const "github.com/TimeWtr/sched/const"
	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
)

// sampleCount 判断表达式是否为固定周期时采样的触发次数，足以覆盖一周内的工作日列表
const sampleCount = 16

// ParseBoundary 将cron表达式转换为周期和偏移
// 支持@hourly、@daily、@every 15m、"15 * * * *"、"*/5 * * * *"等固定周期的表达式，
// 偏移以UTC纪元起点为基准测量，执行时再按本地时区对齐。
// 每月、工作日列表等周期不固定的表达式返回ErrIrregularExpr。
func ParseBoundary(expr string) (interval, offset time.Duration, err error) {
	s, err := _const.Parser.Parse(expr)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "parse boundary expression %q", expr)
	}

	switch cs := s.(type) {
	case cron.ConstantDelaySchedule:
		return cs.Delay, 0, nil
	case *cron.SpecSchedule:
		cs.Location = time.UTC
	}

	epoch := time.UnixMilli(0).UTC()
	prev := s.Next(epoch.Add(-time.Nanosecond))
	if prev.IsZero() {
		return 0, 0, errors.Wrapf(ErrIrregularExpr, "%q never fires", expr)
	}
	first := prev

	for i := 0; i < sampleCount; i++ {
		next := s.Next(prev)
		if next.IsZero() {
			return 0, 0, errors.Wrapf(ErrIrregularExpr, "%q stops firing", expr)
		}
		d := next.Sub(prev)
		if interval == 0 {
			interval = d
		} else if d != interval {
			return 0, 0, errors.Wrapf(ErrIrregularExpr, "%q fires after %s and %s", expr, interval, d)
		}
		prev = next
	}

	return interval, first.Sub(epoch) % interval, nil
}

// NewExprJob 使用cron表达式创建周期Job
func NewExprJob(task Task, expr string, opts ...JobOption) (Job, error) {
	interval, offset, err := ParseBoundary(expr)
	if err != nil {
		return nil, err
	}
	return newDurationJob(task, interval, offset, opts)
}
