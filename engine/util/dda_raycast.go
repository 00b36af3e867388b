package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelengine/engine/voxel"
)

type HitInfo3D struct {
	Distance               float64
	Side                   voxel.FaceType
	CollisionWorldPosition mgl32.Vec3
	PreviousGridPosition   voxel.Int3
	CollisionGridPosition  voxel.Int3
	Hit                    bool
}

// axisStep holds the traversal state along one axis.
type axisStep struct {
	cell  int32
	step  int32
	delta float64
	max   float64
}

func newAxisStep(origin, dir float32) axisStep {
	cell := int32(math.Floor(float64(origin)))
	s := axisStep{cell: cell, step: -1, delta: math.Inf(1), max: math.Inf(1)}
	dist := float64(origin) - float64(cell)
	if dir > 0 {
		s.step = 1
		dist = float64(cell+1) - float64(origin)
	}
	if dir != 0 {
		s.delta = math.Abs(1 / float64(dir))
		s.max = s.delta * dist
	}
	return s
}

// DDARaycast walks the grid cells crossed by the segment from rayStart to rayEnd
// and stops at the first cell for which stopRay returns true.
// Side is the face of the hit cell the ray entered through.
// Adapted from https://github.com/fenomas/fast-voxel-raycast
func DDARaycast(rayStart, rayEnd mgl32.Vec3, stopRay func(x, y, z int32) bool) HitInfo3D {
	ray := rayEnd.Sub(rayStart)
	maxRayLength := float64(ray.Len())
	if maxRayLength == 0 {
		return HitInfo3D{}
	}
	rayDir := ray.Normalize()

	axes := [3]axisStep{
		newAxisStep(rayStart.X(), rayDir.X()),
		newAxisStep(rayStart.Y(), rayDir.Y()),
		newAxisStep(rayStart.Z(), rayDir.Z()),
	}
	enteredFaces := [3][2]voxel.FaceType{
		{voxel.XN, voxel.XP},
		{voxel.YN, voxel.YP},
		{voxel.ZN, voxel.ZP},
	}

	t := 0.0
	steppedAxis := -1
	for t <= maxRayLength {
		current := voxel.Int3{X: axes[0].cell, Y: axes[1].cell, Z: axes[2].cell}
		if stopRay(current.X, current.Y, current.Z) {
			hit := HitInfo3D{
				Hit:                    true,
				Distance:               t,
				CollisionWorldPosition: rayStart.Add(rayDir.Mul(float32(t))),
				PreviousGridPosition:   current,
				CollisionGridPosition:  current,
			}
			if steppedAxis >= 0 {
				a := axes[steppedAxis]
				if a.step > 0 {
					hit.Side = enteredFaces[steppedAxis][0]
				} else {
					hit.Side = enteredFaces[steppedAxis][1]
				}
				hit.PreviousGridPosition = current.Add(hit.Side.Offset())
			}
			return hit
		}

		steppedAxis = 0
		for i := 1; i < 3; i++ {
			if axes[i].max < axes[steppedAxis].max {
				steppedAxis = i
			}
		}
		a := &axes[steppedAxis]
		a.cell += a.step
		t = a.max
		a.max += a.delta
	}
	return HitInfo3D{Hit: false}
}
