package sched

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock 可替换的时间源，测试中使用clockwork.FakeClock
type Clock = clockwork.Clock

// Steward 时间源与本地时区的组合，所有的“当前时间”都从这里获取
type Steward struct {
	clock Clock
	loc   *time.Location
}

func NewSteward(clock Clock, loc *time.Location) *Steward {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Steward{clock: clock, loc: loc}
}

var defaultSteward = NewSteward(nil, nil)

// DefaultSteward 使用系统时钟和本地时区
func DefaultSteward() *Steward {
	return defaultSteward
}

func (s *Steward) Clock() Clock {
	return s.clock
}

func (s *Steward) Location() *time.Location {
	return s.loc
}

// Now 返回本地时区下的当前时间，Zone()中包含当时生效的时区和夏令时偏移
func (s *Steward) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Steward) NowMillis() int64 {
	return s.clock.Now().UnixMilli()
}

// ZoneOffset 返回t时刻时区偏移与夏令时偏移之和
func (s *Steward) ZoneOffset(t time.Time) time.Duration {
	_, off := t.In(s.loc).Zone()
	return time.Duration(off) * time.Second
}

// MinuteOfDay 当前本地时间是一天中的第几分钟
func (s *Steward) MinuteOfDay() int {
	now := s.Now()
	return now.Hour()*60 + now.Minute()
}

// SecondOfDay t在本地时区中是一天中的第几秒
func (s *Steward) SecondOfDay(t time.Time) int {
	t = t.In(s.loc)
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
