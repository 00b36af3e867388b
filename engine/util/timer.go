package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimerState accumulates the durations of one named section in milliseconds.
type TimerState struct {
	Name         string
	LastDuration float64

	TotalDuration  float64
	ExecutionCount int64

	MinDuration float64
	MaxDuration float64
}

func (t *TimerState) AverageDuration() float64 {
	if t.ExecutionCount == 0 {
		return 0
	}
	return t.TotalDuration / float64(t.ExecutionCount)
}

func (t *TimerState) String() string {
	return fmt.Sprintf("%s last: %.2fms, avg: %.2fms, min: %.2fms, max: %.2fms (%d runs)", t.Name, t.LastDuration, t.AverageDuration(), t.MinDuration, t.MaxDuration, t.ExecutionCount)
}

func (t *TimerState) record(durationInMS float64) {
	t.LastDuration = durationInMS
	t.TotalDuration += durationInMS
	t.ExecutionCount++
	if durationInMS < t.MinDuration {
		t.MinDuration = durationInMS
	}
	if durationInMS > t.MaxDuration {
		t.MaxDuration = durationInMS
	}
}

// Timer is not safe for concurrent use.
type Timer struct {
	states     map[string]*TimerState
	timerNames []string
	now        func() time.Time
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
		now:    time.Now,
	}
}

// States returns the states in the order their timers were first started.
func (t *Timer) States() []TimerState {
	result := make([]TimerState, 0, len(t.timerNames))
	for _, name := range t.timerNames {
		result = append(result, *t.states[name])
	}
	return result
}

func (t *Timer) String() string {
	var sb strings.Builder
	for _, name := range t.timerNames {
		sb.WriteString(t.states[name].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Start begins timing name; the returned func stops it and reports the milliseconds elapsed.
func (t *Timer) Start(name string) func() float64 {
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			Name:        name,
			MinDuration: math.MaxFloat64,
		}
		t.states[name] = state
	}
	start := t.now()
	return func() float64 {
		durationInMS := float64(t.now().Sub(start).Microseconds()) / 1000.0
		state.record(durationInMS)
		return durationInMS
	}
}
