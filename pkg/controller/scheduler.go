package controller

import "time"

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d has elapsed. Each controller owns its
// scheduler so instances never share timers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) Timer

// AfterFunc implements Scheduler.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Timer {
	return f(d, fn)
}

// RealScheduler schedules callbacks with time.AfterFunc.
func RealScheduler() Scheduler {
	return SchedulerFunc(func(d time.Duration, fn func()) Timer {
		return time.AfterFunc(d, fn)
	})
}
