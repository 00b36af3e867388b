package app

import "time"

type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64
}

func (t *Time) DeltaSeconds() float32 {
	return float32(t.Delta.Seconds())
}

func (t *Time) advance(dt time.Duration) {
	t.Delta = dt
	t.Elapsed += dt
	t.Frame++
}
