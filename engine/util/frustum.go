package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FrustumPlanes extracts the six clip planes (left, right, bottom, top, near, far)
// from a projection*view matrix. Plane normals point inwards and are normalized.
func FrustumPlanes(projView mgl32.Mat4) []mgl32.Vec4 {
	r0, r1, r2, r3 := projView.Row(0), projView.Row(1), projView.Row(2), projView.Row(3)
	planes := []mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
	for i, p := range planes {
		length := p.Vec3().Len()
		if length > 0 {
			planes[i] = p.Mul(1 / length)
		}
	}
	return planes
}
