package sched

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	_const "github.com/TimeWtr/sched/const"
	"github.com/TimeWtr/sched/domain"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"
)

type Scheduler interface {
	// Scheduler 开启调度，直到ctx结束
	Scheduler(ctx context.Context) error
	// Register 注册执行器方法
	Register(name string, fn TaskFunc) error
	// Add 添加需要调度的Job
	Add(job Job) error
	// Remove 取消Job，正在执行的Job执行完后不再调度
	Remove(id uint64) bool
	// Load 按照配置创建并添加Job
	Load(jobs []JobConfig) ([]Job, error)
	// Len 等待调度的Job数量
	Len() int
}

// Recorder 保存执行记录，repository.RunRepository实现了该接口
type Recorder interface {
	Record(ctx context.Context, run domain.Run) error
}

var _ Scheduler = (*SchedulerCore)(nil)

type Options func(core *SchedulerCore)

// WithRetryStrategy 一次性Job执行失败后按照策略重试
func WithRetryStrategy(retry RetryStrategy) Options {
	return func(c *SchedulerCore) {
		c.retry = retry
	}
}

// WithLimiter 设置并发执行的Job数量，防止执行较慢的Job阻塞队列
func WithLimiter(limiter int64) Options {
	return func(c *SchedulerCore) {
		if limiter > 0 {
			c.limiter = semaphore.NewWeighted(limiter)
		}
	}
}

// WithSchedulerSteward 设置调度器使用的时间源
func WithSchedulerSteward(s *Steward) Options {
	return func(c *SchedulerCore) {
		if s != nil {
			c.steward = s
		}
	}
}

// WithRecorder 保存每次执行的记录
func WithRecorder(r Recorder) Options {
	return func(c *SchedulerCore) {
		c.recorder = r
	}
}

type SchedulerCore struct {
	logger  Logger
	steward *Steward
	// 本地的执行器注册中心
	execCenter *executorCenter
	// 等待执行的Job
	queue *ConcurrentJobHeap
	// 已注册且未取消的Job，包括正在执行的
	jobs Cache
	// 一次性Job失败后的重试策略
	retry RetryStrategy
	// 每个Job当前的重试状态
	retries sync.Map
	// 限流
	limiter  *semaphore.Weighted
	recorder Recorder
	// 有新Job加入时唤醒调度循环
	wake chan struct{}
	wg   sync.WaitGroup
}

func NewSchedulerCore(logger Logger, opts ...Options) *SchedulerCore {
	if logger == nil {
		logger = NewNopLogger()
	}
	scheduler := &SchedulerCore{
		logger:     logger,
		steward:    DefaultSteward(),
		execCenter: newExecutorCenter(),
		queue:      NewConcurrentJobHeap(64),
		jobs:       NewLocalCache(64),
		wake:       make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(scheduler)
	}

	if scheduler.limiter == nil {
		scheduler.limiter = semaphore.NewWeighted(_const.DefaultLimiter)
	}

	return scheduler
}

// NewSchedulerFromConfig 按照配置设置时区、限流和重试策略，Job需要在注册执行器后通过Load添加
func NewSchedulerFromConfig(cfg Config, logger Logger, opts ...Options) (*SchedulerCore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	base := []Options{WithSchedulerSteward(NewSteward(nil, loc)), WithLimiter(cfg.Limiter)}
	if cfg.Retry != nil {
		base = append(base, WithRetryStrategy(FixedRetry(cfg.Retry.Interval, cfg.Retry.MaxCount)))
	}
	return NewSchedulerCore(logger, append(base, opts...)...), nil
}

func (s *SchedulerCore) Register(name string, fn TaskFunc) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("executor name required")
	}
	if fn == nil {
		return errors.Wrapf(ErrNilTask, "executor %q", name)
	}
	s.execCenter.Register(name, fn)
	return nil
}

// JobOptions 使用调度器的时间源和日志创建Job时需要的选项
func (s *SchedulerCore) JobOptions(name string) []JobOption {
	return []JobOption{WithName(name), WithSteward(s.steward), WithLogger(s.logger)}
}

func (s *SchedulerCore) Load(jobs []JobConfig) ([]Job, error) {
	res := make([]Job, 0, len(jobs))
	for _, jc := range jobs {
		fn, err := s.execCenter.Lookup(jc.Executor)
		if err != nil {
			return nil, errors.Wrapf(err, "job %q", jc.Name)
		}

		var job Job
		if jc.Every != "" {
			job, err = NewExprJob(fn, jc.Every, s.JobOptions(jc.Name)...)
		} else {
			job, err = NewOneShotJob(fn, jc.Delay, s.JobOptions(jc.Name)...)
		}
		if err != nil {
			return nil, err
		}
		res = append(res, job)
	}

	for _, job := range res {
		if err := s.Add(job); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *SchedulerCore) Add(job Job) error {
	if job == nil {
		return errors.New("nil job")
	}

	s.jobs.Set(jobKey(job.ID()), job)
	s.queue.Push(job)
	s.notify()
	s.logger.Debug("job added",
		Field{Key: "job", Val: job.Name()},
		Field{Key: "next_time", Val: job.NextTime()},
		Field{Key: "interval", Val: job.Interval()})
	return nil
}

func (s *SchedulerCore) Remove(id uint64) bool {
	key := jobKey(id)
	_, ok := s.jobs.Get(key)
	s.jobs.Del(key)
	s.retries.Delete(id)
	removed := s.queue.Remove(id)
	if ok || removed {
		s.notify()
		s.logger.Debug("job removed", Field{Key: "id", Val: id})
	}
	return ok || removed
}

func (s *SchedulerCore) Len() int {
	return s.queue.Len()
}

func (s *SchedulerCore) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *SchedulerCore) Scheduler(ctx context.Context) error {
	s.logger.Info("scheduler started",
		Field{Key: "tz", Val: s.steward.Location().String()},
		Field{Key: "jobs", Val: s.queue.Len()})
	defer s.wg.Wait()

	clock := s.steward.Clock()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		head := s.queue.Peek()
		if head == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
			}
			continue
		}

		// 等待到队列头部Job的执行时间，期间有新Job加入需要重新判断
		if d := head.NextTime().Sub(clock.Now()); d > 0 {
			timer := clock.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-s.wake:
				timer.Stop()
			case <-timer.Chan():
			}
			continue
		}

		job := s.queue.PopDue(clock.Now())
		if job == nil {
			continue
		}

		if err := s.limiter.Acquire(ctx, 1); err != nil {
			s.queue.Push(job)
			return err
		}

		s.wg.Add(1)
		go s.run(ctx, job)
	}
}

// run 执行Job并记录结果，周期Job执行结束后重新放回队列
func (s *SchedulerCore) run(ctx context.Context, job Job) {
	defer s.wg.Done()
	defer s.limiter.Release(1)

	run := domain.Run{
		JobID:       job.ID(),
		JobName:     job.Name(),
		ScheduledAt: job.NextTime(),
		StartedAt:   s.steward.Now(),
		Status:      _const.RunStatusRunning,
	}
	missed := job.Missed()
	err := s.execute(ctx, job)
	run.FinishedAt = s.steward.Now()
	run.Missed = job.Missed() > missed
	if err != nil {
		run.Status = _const.RunStatusFailed
		run.Err = err.Error()
		s.logger.Error("failed to execute job",
			Field{Key: "job", Val: job.Name()},
			Field{Key: "err", Val: err})
	} else {
		run.Status = _const.RunStatusSuccess
	}
	s.record(run)

	key := jobKey(job.ID())
	if _, ok := s.jobs.Get(key); !ok {
		// 已经被取消
		return
	}

	if job.Interval() > 0 {
		s.queue.Push(job)
		s.notify()
		return
	}

	if err != nil && s.retryLater(job) {
		return
	}
	s.jobs.Del(key)
	s.retries.Delete(job.ID())
}

func (s *SchedulerCore) execute(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("job %q panicked: %v", job.Name(), r)
		}
	}()
	return job.Execute(ctx)
}

// retryLater 一次性Job失败后按照重试策略延迟再次执行，返回是否已经放回队列
func (s *SchedulerCore) retryLater(job Job) bool {
	if s.retry == nil {
		return false
	}

	v, _ := s.retries.LoadOrStore(job.ID(), s.retry())
	strategy := v.(ScheduleStrategy)
	delay, err := strategy.Next()
	if err != nil {
		s.logger.Warn("job retries exhausted",
			Field{Key: "job", Val: job.Name()},
			Field{Key: "err", Val: err})
		return false
	}

	inner := job
	if rj, ok := job.(*retryJob); ok {
		inner = rj.Job
	}
	s.queue.Push(&retryJob{Job: inner, next: s.steward.Now().Add(delay)})
	s.notify()
	return true
}

// record 保存执行记录，失败只记录日志
func (s *SchedulerCore) record(run domain.Run) {
	if s.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.recorder.Record(ctx, run); err != nil {
		s.logger.Warn("failed to record run",
			Field{Key: "job", Val: run.JobName},
			Field{Key: "err", Val: err})
	}
}

// retryJob 延迟重试的一次性Job，使用新的执行时间参与排序
type retryJob struct {
	Job
	next time.Time
}

func (r *retryJob) NextTime() time.Time {
	return r.next
}

func jobKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
