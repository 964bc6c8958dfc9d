// Package sched 按照日历边界对齐的任务调度
//
// 周期Job的执行时间以纪元起点为基准计算，例如每小时整点、每分钟的第15秒，
// 并按照当时生效的时区和夏令时偏移对齐到本地时间。Job之间有确定的全序关系，
// SchedulerCore使用优先级队列按照这个顺序依次执行。
package sched
