package sched

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidSchedule 周期或偏移参数违反约束，属于编程错误
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrNilTask 没有提供需要执行的任务
	ErrNilTask = errors.New("nil task")
	// ErrIrregularExpr 表达式无法转换为固定周期
	ErrIrregularExpr = errors.New("irregular boundary expression")
	// ErrExecutorNotFound 配置中引用了未注册的执行器
	ErrExecutorNotFound = errors.New("executor not found")
	// ErrOverMaxCount 重试次数已用完
	ErrOverMaxCount = errors.New("over max count")
)

// contractViolation 构造一个可以用errors.Is匹配ErrInvalidSchedule的断言错误
func contractViolation(format string, args ...any) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrInvalidSchedule)
}
