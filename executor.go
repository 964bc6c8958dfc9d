package sched

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Executor 按名称注册的任务执行函数，配置中的Job通过名称引用
type Executor interface {
	// Register 注册执行函数，同名的会被覆盖
	Register(name string, fn TaskFunc)
	// Lookup 查找执行函数
	Lookup(name string) (TaskFunc, error)
}

var _ Executor = (*executorCenter)(nil)

type executorCenter struct {
	mu  sync.RWMutex
	fns map[string]TaskFunc
}

func newExecutorCenter() *executorCenter {
	return &executorCenter{fns: map[string]TaskFunc{}}
}

func (e *executorCenter) Register(name string, fn TaskFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fns[name] = fn
}

func (e *executorCenter) Lookup(name string) (TaskFunc, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.fns[name]
	if !ok || fn == nil {
		return nil, errors.Wrapf(ErrExecutorNotFound, "executor %q", name)
	}
	return fn, nil
}
