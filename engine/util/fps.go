package util

import (
	"fmt"
	"time"
)

const fpsSmoothing = 2.0 / 21.0

// FPSCounter keeps an exponentially smoothed frames per second value.
type FPSCounter struct {
	smoothed float64
	samples  int
}

func (f *FPSCounter) AddFrame(delta time.Duration) {
	if delta <= 0 {
		return
	}
	fps := 1 / delta.Seconds()
	if f.samples == 0 {
		f.smoothed = fps
	} else {
		f.smoothed += (fps - f.smoothed) * fpsSmoothing
	}
	f.samples++
}

// Value returns false until at least one frame was recorded.
func (f *FPSCounter) Value() (float64, bool) {
	return f.smoothed, f.samples > 0
}

// FPSColor maps a frame rate to an RGBA colour: green from 120 up, a
// yellow-green blend between 60 and 120, a yellow-orange blend between 30 and 60
// and red below. An unknown rate is white.
func FPSColor(value float64, ok bool) [4]float32 {
	if !ok {
		return [4]float32{1, 1, 1, 1}
	}
	v := float32(value)
	switch {
	case v >= 120:
		return [4]float32{0, 1, 0, 1}
	case v >= 60:
		return [4]float32{1 - (v-60)/60, 1, 0, 1}
	case v >= 30:
		return [4]float32{1, (v - 30) / 30, 0, 1}
	}
	return [4]float32{1, 0, 0, 1}
}

func FormatFPS(value float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%4.0f", value)
}
