package sched

import (
	"container/heap"
	"sync"
	"time"
)

type Cache interface {
	Set(key string, value any)
	Get(key string) (any, bool)
	Del(key string)
	Len() int
}

func NewLocalCache(size int) Cache {
	return &LocalCache{
		mp: make(map[string]any, size),
		mu: &sync.RWMutex{},
	}
}

type LocalCache struct {
	mp map[string]any
	mu *sync.RWMutex
}

func (l *LocalCache) Set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mp[key] = value
}

func (l *LocalCache) Get(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.mp[key]
	return v, ok
}

func (l *LocalCache) Del(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.mp, key)
}

func (l *LocalCache) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.mp)
}

// Hp 小顶堆优先级队列
// 按照Compare的全序关系，下次执行时间最近的Job放到队列头部
type Hp []Job

func (h *Hp) Len() int {
	return len(*h)
}

func (h *Hp) Less(i, j int) bool {
	return Less((*h)[i], (*h)[j])
}

func (h *Hp) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
}

func (h *Hp) Push(x interface{}) {
	*h = append(*h, x.(Job))
}

func (h *Hp) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Peek 返回队列头部的Job，不出队
func (h *Hp) Peek() Job {
	if len(*h) == 0 {
		return nil
	}
	return (*h)[0]
}

// CheckExistExecJob 判断队列头部的Job在now时是否已经到期
func (h *Hp) CheckExistExecJob(now time.Time) bool {
	job := h.Peek()
	return job != nil && !job.NextTime().After(now)
}

// ConcurrentJobHeap 并发安全的优先级队列
type ConcurrentJobHeap struct {
	hp Hp
	mu *sync.RWMutex
}

func NewConcurrentJobHeap(size int) *ConcurrentJobHeap {
	return &ConcurrentJobHeap{
		hp: make(Hp, 0, size),
		mu: &sync.RWMutex{},
	}
}

func (h *ConcurrentJobHeap) Push(job Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	heap.Push(&h.hp, job)
}

func (h *ConcurrentJobHeap) Pop() Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hp.Len() == 0 {
		return nil
	}

	return heap.Pop(&h.hp).(Job)
}

func (h *ConcurrentJobHeap) Peek() Job {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hp.Peek()
}

// PopDue 队列头部的Job已经到期时出队，否则返回nil
func (h *ConcurrentJobHeap) PopDue(now time.Time) Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.hp.CheckExistExecJob(now) {
		return nil
	}
	return heap.Pop(&h.hp).(Job)
}

// Remove 按照id移除Job
func (h *ConcurrentJobHeap) Remove(id uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, job := range h.hp {
		if job.ID() == id {
			heap.Remove(&h.hp, i)
			return true
		}
	}
	return false
}

func (h *ConcurrentJobHeap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hp.Len()
}

func (h *ConcurrentJobHeap) Empty() bool {
	return h.Len() == 0
}

func (h *ConcurrentJobHeap) CheckExistExecJob(now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hp.CheckExistExecJob(now)
}
