package binder

import "time"

// Timer is a scheduled continuation that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules continuations. Page flips use it instead of blocking.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by time.AfterFunc.
func SystemClock() Clock {
	return realClock{}
}
