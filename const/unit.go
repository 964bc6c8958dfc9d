package _const

import (
	"fmt"
	"time"
)

// Unit 日历单位，用于描述周期和偏移
type Unit int

const (
	Millisecond Unit = iota + 1
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

// DefaultLimiter 调度器默认的并发执行数量
const DefaultLimiter = 16

func (u Unit) String() string {
	switch u {
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

func (u Unit) Valid() bool {
	return u >= Millisecond && u <= Year
}

// Span 从纪元起点（loc时区下）前进count个单位所经过的时长。
// 日、周、月、年按日历计算，因此1个月固定为1970年1月的31天。
func (u Unit) Span(count int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	epoch := time.UnixMilli(0).In(loc)
	var t time.Time
	switch u {
	case Millisecond:
		t = epoch.Add(time.Duration(count) * time.Millisecond)
	case Second:
		t = epoch.Add(time.Duration(count) * time.Second)
	case Minute:
		t = epoch.Add(time.Duration(count) * time.Minute)
	case Hour:
		t = epoch.Add(time.Duration(count) * time.Hour)
	case Day:
		t = epoch.AddDate(0, 0, count)
	case Week:
		t = epoch.AddDate(0, 0, 7*count)
	case Month:
		t = epoch.AddDate(0, count, 0)
	case Year:
		t = epoch.AddDate(count, 0, 0)
	default:
		return 0
	}
	return t.Sub(epoch)
}
