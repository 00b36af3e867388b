package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FlyCamera is a free-flying first person camera driven by yaw and pitch in degrees.
type FlyCamera struct {
	Sensitivity float32
	Speed       float32
	Position    mgl32.Vec3
	Front       mgl32.Vec3
	Up          mgl32.Vec3
	Right       mgl32.Vec3
	WorldUp     mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Enabled     bool
}

// NewFlyCamera returns the default camera. Its vectors stay at their initial
// values until the first mouse update.
func NewFlyCamera() FlyCamera {
	return FlyCamera{
		Sensitivity: 0.2,
		Speed:       0.5,
		Position:    mgl32.Vec3{3, 10, 10},
		Front:       mgl32.Vec3{-0.3, -1, -1}.Normalize(),
		Up:          mgl32.Vec3{0, 1, 0},
		Right:       mgl32.Vec3{1, 0, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Pitch:       0,
		Enabled:     true,
	}
}

type MoveInput struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
}

func (c *FlyCamera) ProcessKeyboard(in MoveInput, deltaTime float32) {
	if !c.Enabled {
		return
	}
	direction := mgl32.Vec3{}
	if in.Forward {
		direction = direction.Add(c.Front.Mul(c.Speed))
	}
	if in.Backward {
		direction = direction.Sub(c.Front.Mul(c.Speed))
	}
	if in.Left {
		direction = direction.Sub(c.Right.Mul(c.Speed))
	}
	if in.Right {
		direction = direction.Add(c.Right.Mul(c.Speed))
	}
	if in.Up {
		direction = direction.Add(c.Up.Mul(c.Speed))
	}
	if in.Down {
		direction = direction.Sub(c.Up.Mul(c.Speed))
	}
	if direction.Len() != 0 {
		direction = direction.Add(direction.Normalize().Mul(deltaTime))
	}
	c.Position = c.Position.Add(direction)
}

// ProcessMouse applies all motion deltas of one frame, then clamps the pitch.
func (c *FlyCamera) ProcessMouse(motions []mgl32.Vec2) {
	if !c.Enabled {
		return
	}
	for _, motion := range motions {
		c.Yaw += motion.X() * c.Sensitivity
		c.Pitch -= motion.Y() * c.Sensitivity
	}
	c.Pitch = Clamp(c.Pitch, -89, 89)
	c.UpdateVectors()
}

func (c *FlyCamera) UpdateVectors() {
	yaw := ToRadian(c.Yaw)
	pitch := ToRadian(c.Pitch)
	front := mgl32.Vec3{
		Cos(yaw) * Cos(pitch),
		Sin(pitch),
		Sin(yaw) * Cos(pitch),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}
