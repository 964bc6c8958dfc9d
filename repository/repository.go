package repository

import (
	"context"
	"time"

	_const "github.com/TimeWtr/sched/const"
	"github.com/TimeWtr/sched/domain"
	"github.com/TimeWtr/sched/repository/dao"
)

type RunRepository interface {
	// Record 保存一次执行记录
	Record(ctx context.Context, run domain.Run) error
	// ListByJob 查询Job最近的limit条执行记录
	ListByJob(ctx context.Context, name string, limit int) ([]domain.Run, error)
	// CountMissed 统计Job错过执行的次数
	CountMissed(ctx context.Context, name string) (int64, error)
}

type runRepository struct {
	dao dao.RunDAO
}

func NewRunRepository(d dao.RunDAO) RunRepository {
	return &runRepository{dao: d}
}

func (r *runRepository) Record(ctx context.Context, run domain.Run) error {
	return r.dao.Insert(ctx, toEntity(run))
}

func (r *runRepository) ListByJob(ctx context.Context, name string, limit int) ([]domain.Run, error) {
	runs, err := r.dao.FindByJob(ctx, name, limit)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Run, 0, len(runs))
	for _, run := range runs {
		res = append(res, toDomain(run))
	}
	return res, nil
}

func (r *runRepository) CountMissed(ctx context.Context, name string) (int64, error) {
	return r.dao.CountMissed(ctx, name)
}

func toEntity(run domain.Run) dao.Runs {
	return dao.Runs{
		JobID:         run.JobID,
		JobName:       run.JobName,
		Status:        int(run.Status),
		Missed:        run.Missed,
		Err:           run.Err,
		ScheduledTime: unixMilli(run.ScheduledAt),
		StartedTime:   unixMilli(run.StartedAt),
		FinishedTime:  unixMilli(run.FinishedAt),
	}
}

func toDomain(run dao.Runs) domain.Run {
	return domain.Run{
		JobID:       run.JobID,
		JobName:     run.JobName,
		Status:      _const.RunStatus(run.Status),
		Missed:      run.Missed,
		Err:         run.Err,
		ScheduledAt: fromMilli(run.ScheduledTime),
		StartedAt:   fromMilli(run.StartedTime),
		FinishedAt:  fromMilli(run.FinishedTime),
	}
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
