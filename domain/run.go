package domain

import (
	"time"

	_const "github.com/TimeWtr/sched/const"
)

// Run 一次Job执行的记录
type Run struct {
	// JobID Job的进程内编号，不同进程之间不唯一
	JobID uint64
	// JobName Job名称
	JobName string
	// ScheduledAt 本次执行原定的时间
	ScheduledAt time.Time
	// StartedAt 开始执行的时间
	StartedAt time.Time
	// FinishedAt 执行结束的时间
	FinishedAt time.Time
	// Status 执行状态
	Status _const.RunStatus
	// Missed 计算下次执行时间时是否发现错过了执行
	Missed bool
	// Err 执行失败的原因
	Err string
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
