package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Camera interface {
	GetViewMatrix() mgl32.Mat4
	GetProjectionMatrix() mgl32.Mat4
	GetFront() mgl32.Vec3
	GetPosition() mgl32.Vec3
	GetNearPlaneDist() float32
}

// Projection is a perspective projection with the field of view in degrees.
type Projection struct {
	FovY        float32
	AspectRatio float32
	Near        float32
	Far         float32
}

func DefaultProjection(width, height int) Projection {
	p := Projection{FovY: 45, AspectRatio: 16.0 / 9.0, Near: 0.1, Far: 1000}
	if width > 0 && height > 0 {
		p.AspectRatio = float32(width) / float32(height)
	}
	return p
}

func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FovY), p.AspectRatio, p.Near, p.Far)
}

// PerspectiveCamera pairs a FlyCamera with a projection.
type PerspectiveCamera struct {
	*FlyCamera
	Projection Projection
}

func (c PerspectiveCamera) GetViewMatrix() mgl32.Mat4       { return c.ViewMatrix() }
func (c PerspectiveCamera) GetProjectionMatrix() mgl32.Mat4 { return c.Projection.Matrix() }
func (c PerspectiveCamera) GetFront() mgl32.Vec3            { return c.Front }
func (c PerspectiveCamera) GetPosition() mgl32.Vec3         { return c.Position }
func (c PerspectiveCamera) GetNearPlaneDist() float32       { return c.Projection.Near }

// GetRayFromCameraPlane unprojects a point in normalized device coordinates
// into a world space ray of length rayLength.
func GetRayFromCameraPlane(cam Camera, normalizedX, normalizedY, rayLength float32) (mgl32.Vec3, mgl32.Vec3) {
	projViewInverted := cam.GetProjectionMatrix().Mul4(cam.GetViewMatrix()).Inv()

	nearWorldPos := projViewInverted.Mul4x1(mgl32.Vec4{normalizedX, normalizedY, -1, 1})
	farWorldPos := projViewInverted.Mul4x1(mgl32.Vec4{normalizedX, normalizedY, 1, 1})

	rayStart := nearWorldPos.Vec3().Mul(1 / nearWorldPos.W())
	farPos := farWorldPos.Vec3().Mul(1 / farWorldPos.W())
	dir := farPos.Sub(rayStart).Normalize()
	return rayStart, rayStart.Add(dir.Mul(rayLength))
}
