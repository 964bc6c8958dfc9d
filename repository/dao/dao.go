package dao

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// RunDAO 执行记录的数据访问
type RunDAO interface {
	Insert(ctx context.Context, run Runs) error
	// FindByJob 按照开始时间倒序查询某个Job最近的执行记录
	FindByJob(ctx context.Context, name string, limit int) ([]Runs, error)
	// CountMissed 统计某个Job错过执行的次数
	CountMissed(ctx context.Context, name string) (int64, error)
}

type GormRunDAO struct {
	db *gorm.DB
}

func NewGormRunDAO(db *gorm.DB) RunDAO {
	return &GormRunDAO{db: db}
}

// InitTables 自动建表
func InitTables(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&Runs{}), "migrate runs")
}

func (g *GormRunDAO) Insert(ctx context.Context, run Runs) error {
	err := g.db.WithContext(ctx).Create(&run).Error
	return errors.Wrapf(err, "insert run of job %q", run.JobName)
}

func (g *GormRunDAO) FindByJob(ctx context.Context, name string, limit int) ([]Runs, error) {
	var runs []Runs
	err := g.db.WithContext(ctx).
		Where("job_name = ?", name).
		Order("started_time DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find runs of job %q", name)
	}
	return runs, nil
}

func (g *GormRunDAO) CountMissed(ctx context.Context, name string) (int64, error) {
	var cnt int64
	err := g.db.WithContext(ctx).Model(&Runs{}).
		Where("job_name = ? AND missed = ?", name, true).
		Count(&cnt).Error
	if err != nil {
		return 0, errors.Wrapf(err, "count missed runs of job %q", name)
	}
	return cnt, nil
}

type Runs struct {
	// ID 在数据库中的ID信息
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// JobID 执行时Job的进程内编号
	JobID uint64 `gorm:"column:job_id;not null" json:"job_id"`
	// JobName Job名称
	JobName string `gorm:"column:job_name;type:varchar(255);not null;index" json:"job_name"`
	// Status 执行状态
	Status int `gorm:"column:status;type:int;not null" json:"status"`
	// Missed 是否错过了执行
	Missed bool `gorm:"column:missed;not null" json:"missed"`
	// Err 失败原因
	Err string `gorm:"column:err;type:text" json:"err"`
	// ScheduledTime 原定执行时间，毫秒
	ScheduledTime int64 `gorm:"column:scheduled_time;not null" json:"scheduled_time"`
	// StartedTime 开始时间，毫秒
	StartedTime int64 `gorm:"column:started_time;not null" json:"started_time"`
	// FinishedTime 结束时间，毫秒
	FinishedTime int64 `gorm:"column:finished_time;not null" json:"finished_time"`
}

func (Runs) TableName() string {
	return "runs"
}
