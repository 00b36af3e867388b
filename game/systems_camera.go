package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/mlange-42/arche/ecs"
)

func (s *systems) setupCamera(w *ecs.World) {
	fly := util.NewFlyCamera()
	fly.Sensitivity = s.settings.Camera.Sensitivity
	fly.Speed = s.settings.Camera.Speed

	cam := w.NewEntity(s.transform.ID(), s.camera.ID(), s.fly.ID())
	transform := NewTransform(mgl32.Vec3{0, 0, 10})
	transform.LookTo(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	*s.transform.Get(cam) = transform
	projection := util.DefaultProjection(s.settings.Render.Width, s.settings.Render.Height)
	projection.FovY = s.settings.Camera.FOV
	s.camera.Get(cam).Projection = projection
	s.fly.Get(cam).FlyCamera = fly

	light := w.NewEntity(s.transform.ID(), s.light.ID())
	*s.transform.Get(light) = NewTransform(mgl32.Vec3{4, 8, 4})
	*s.light.Get(light) = PointLight{Intensity: 1500, Range: 100, Color: [4]float32{1, 1, 1, 1}}
}

// activeCamera returns the first fly camera entity.
func (s *systems) activeCamera() (ecs.Entity, bool) {
	cams := s.fly.Entities()
	if len(cams) == 0 {
		return ecs.Entity{}, false
	}
	return cams[0], true
}

func (s *systems) processKeyboard(w *ecs.World) {
	input := app.GetResource[app.Input](w)
	t := app.GetResource[app.Time](w)
	move := util.MoveInput{
		Forward:  input.Pressed(app.KeyW),
		Backward: input.Pressed(app.KeyS),
		Left:     input.Pressed(app.KeyA),
		Right:    input.Pressed(app.KeyD),
		Up:       input.Pressed(app.KeySpace),
		Down:     input.Pressed(app.KeyShiftLeft),
	}
	for _, e := range s.fly.Entities() {
		s.fly.Get(e).ProcessKeyboard(move, t.DeltaSeconds())
	}
}

func (s *systems) processMouse(w *ecs.World) {
	input := app.GetResource[app.Input](w)
	for _, e := range s.fly.Entities() {
		s.fly.Get(e).ProcessMouse(input.MouseMotion)
	}
}

func (s *systems) updateCamera(w *ecs.World) {
	for _, e := range s.fly.Entities() {
		transform := s.transform.Get(e)
		if transform == nil || !s.camera.Has(e) {
			continue
		}
		fly := s.fly.Get(e)
		transform.Translation = fly.Position
		transform.LookTo(fly.Front, fly.Up)
	}
}
