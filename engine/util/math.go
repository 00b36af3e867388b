package util

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func Sin(x float32) float32 {
	return math32.Sin(x)
}

func Cos(x float32) float32 {
	return math32.Cos(x)
}

func Floor(x float32) float32 {
	return math32.Floor(x)
}

func ToRadian(angle float32) float32 {
	return mgl32.DegToRad(angle)
}

func Clamp(value, min, max float32) float32 {
	return math32.Min(math32.Max(value, min), max)
}
