package sched

import (
	"cmp"
	"context"
	"strconv"
	"time"

	_const "github.com/TimeWtr/sched/const"
	"github.com/cockroachdb/errors"
)

// Task 真正需要执行的任务
type Task interface {
	Perform(ctx context.Context) error
}

type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Perform(ctx context.Context) error {
	return f(ctx)
}

// Completer 任务执行结束后（无论成功失败）需要调用的收尾逻辑
type Completer interface {
	Complete()
}

// Job 调度器可以调度的任务单元
type Job interface {
	// ID 全局唯一编号
	ID() uint64
	// Name Job名称，用于日志和执行记录
	Name() string
	// NextTime 下次执行时间
	NextTime() time.Time
	// Interval 执行周期，0表示只执行一次
	Interval() time.Duration
	// Offset 相对周期边界的偏移
	Offset() time.Duration
	// Reschedule 按照当前时间重新计算下次执行时间，返回是否错过了执行
	Reschedule() bool
	// Missed 累计错过执行的次数
	Missed() uint64
	// Execute 执行一次Job
	Execute(ctx context.Context) error
}

type JobOption func(*job)

func WithName(name string) JobOption {
	return func(j *job) {
		j.name = name
	}
}

func WithSteward(s *Steward) JobOption {
	return func(j *job) {
		if s != nil {
			j.steward = s
		}
	}
}

func WithLogger(l Logger) JobOption {
	return func(j *job) {
		if l != nil {
			j.logger = l
		}
	}
}

func WithSequence(seq *Sequence) JobOption {
	return func(j *job) {
		if seq != nil {
			j.seq = seq
		}
	}
}

// WithCompletion 设置执行结束后的回调，在任务自身的Complete之后调用
func WithCompletion(fn func()) JobOption {
	return func(j *job) {
		j.onComplete = fn
	}
}

// job 由任务和调度信息组合而成
type job struct {
	*Schedule
	task       Task
	name       string
	steward    *Steward
	logger     Logger
	seq        *Sequence
	onComplete func()
}

func newJob(task Task, opts []JobOption) (*job, error) {
	if task == nil {
		return nil, ErrNilTask
	}

	j := &job{
		task:    task,
		steward: DefaultSteward(),
		logger:  NewNopLogger(),
		seq:     defaultSequence,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// NewJob 创建周期Job，例如(Hour, 1, Minute, 15)表示每小时的第15分钟执行
func NewJob(task Task, iUnit _const.Unit, i int, oUnit _const.Unit, o int, opts ...JobOption) (Job, error) {
	j, err := newJob(task, opts)
	if err != nil {
		return nil, err
	}

	j.Schedule, err = NewPeriodicSchedule(j.steward.Now(), iUnit, i, oUnit, o, j.seq)
	if err != nil {
		return nil, errors.Wrapf(err, "job %q", j.name)
	}
	return j, nil
}

// NewIntervalJob 创建没有偏移的周期Job
func NewIntervalJob(task Task, iUnit _const.Unit, i int, opts ...JobOption) (Job, error) {
	return NewJob(task, iUnit, i, _const.Second, 0, opts...)
}

// NewOneShotJob 创建延迟delay后只执行一次的Job
func NewOneShotJob(task Task, delay time.Duration, opts ...JobOption) (Job, error) {
	j, err := newJob(task, opts)
	if err != nil {
		return nil, err
	}

	j.Schedule, err = NewOneShotSchedule(j.steward.Now(), delay, j.seq)
	if err != nil {
		return nil, errors.Wrapf(err, "job %q", j.name)
	}
	return j, nil
}

// NewImmediateJob 创建立刻执行一次的Job
func NewImmediateJob(task Task, opts ...JobOption) (Job, error) {
	return NewOneShotJob(task, 0, opts...)
}

// MustNewJob 参数违反约束时直接panic
func MustNewJob(task Task, iUnit _const.Unit, i int, oUnit _const.Unit, o int, opts ...JobOption) Job {
	j, err := NewJob(task, iUnit, i, oUnit, o, opts...)
	if err != nil {
		panic(err)
	}
	return j
}

func newDurationJob(task Task, interval, offset time.Duration, opts []JobOption) (Job, error) {
	j, err := newJob(task, opts)
	if err != nil {
		return nil, err
	}

	j.Schedule, err = newPeriodicSchedule(j.steward.Now(), interval, offset, j.seq)
	if err != nil {
		return nil, errors.Wrapf(err, "job %q", j.name)
	}
	return j, nil
}

func (j *job) Name() string {
	if j.name == "" {
		return "job-" + strconv.FormatUint(j.ID(), 10)
	}
	return j.name
}

func (j *job) Reschedule() bool {
	stale := j.NextTime()
	missed := j.Schedule.Reschedule(j.steward.Now())
	if missed {
		j.logger.Warn("missed event",
			Field{Key: "job", Val: j.Name()},
			Field{Key: "next_time", Val: stale},
			Field{Key: "interval", Val: j.Interval()})
	}
	return missed
}

// Execute 执行一次Job
// 1. 周期Job先计算下次执行时间，不受本次执行耗时影响；
// 2. 执行任务；
// 3. 无论成功、失败还是panic都会调用收尾逻辑，任务的错误原样返回。
func (j *job) Execute(ctx context.Context) error {
	if j.Periodic() {
		j.Reschedule()
	}

	defer j.complete()
	return j.task.Perform(ctx)
}

func (j *job) complete() {
	if c, ok := j.task.(Completer); ok {
		c.Complete()
	}
	if j.onComplete != nil {
		j.onComplete()
	}
}

// Compare Job之间的全序关系，用于优先级队列，只有同一个Job才会返回0
func Compare(a, b Job) int {
	if c := a.NextTime().Compare(b.NextTime()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Interval(), b.Interval()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Offset(), b.Offset()); c != 0 {
		return c
	}
	return cmp.Compare(a.ID(), b.ID())
}

func Less(a, b Job) bool {
	return Compare(a, b) < 0
}
