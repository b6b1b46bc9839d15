package agentrun

import "time"

// RunTimer measures latency segments of a grading attempt.
type RunTimer struct {
	start time.Time
}

func NewRunTimer() *RunTimer {
	return &RunTimer{start: time.Now()}
}

func (t *RunTimer) ElapsedMS() int64 {
	return time.Since(t.start).Milliseconds()
}
