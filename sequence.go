package sched

import "sync/atomic"

// Sequence 进程内唯一且单调递增的Job编号生成器，并发安全
type Sequence struct {
	n atomic.Uint64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Next 返回下一个编号，从1开始
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

var defaultSequence = NewSequence()
