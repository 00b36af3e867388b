package util

import (
	"strings"
	"testing"
	"time"
)

func TestTimer(t *testing.T) {
	clock := time.Unix(0, 0)
	timer := NewTimer()
	timer.now = func() time.Time { return clock }

	stop := timer.Start("mesh")
	clock = clock.Add(4 * time.Millisecond)
	if ms := stop(); ms != 4 {
		t.Errorf("stop returned %v", ms)
	}
	stop = timer.Start("mesh")
	clock = clock.Add(2 * time.Millisecond)
	stop()
	stop = timer.Start("stream")
	clock = clock.Add(time.Millisecond)
	stop()

	states := timer.States()
	if len(states) != 2 || states[0].Name != "mesh" || states[1].Name != "stream" {
		t.Fatalf("States = %+v", states)
	}
	state := states[0]
	if state.ExecutionCount != 2 || state.MinDuration != 2 || state.MaxDuration != 4 || state.AverageDuration() != 3 {
		t.Errorf("mesh state %+v", state)
	}
	if !strings.HasPrefix(timer.String(), "mesh last: 2.00ms") {
		t.Errorf("String = %q", timer.String())
	}
}
