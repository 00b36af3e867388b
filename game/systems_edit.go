package game

import (
	"fmt"

	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/mlange-42/arche/ecs"
)

// editBlocks removes the targeted voxel on a left click and places the editor
// block in front of it on a right click.
func (s *systems) editBlocks(w *ecs.World) {
	input := app.GetResource[app.Input](w)
	breaking := input.MouseJustPressed(app.MouseLeft)
	placing := input.MouseJustPressed(app.MouseRight)
	if !breaking && !placing {
		return
	}
	cam, ok := s.activeCamera()
	if !ok {
		return
	}
	terrain := app.GetResource[Terrain](w)
	editor := app.GetResource[BlockEditor](w)

	// pick through the screen centre
	view := util.PerspectiveCamera{FlyCamera: &s.fly.Get(cam).FlyCamera, Projection: s.camera.Get(cam).Projection}
	rayStart, rayEnd := util.GetRayFromCameraPlane(view, 0, 0, editor.Reach)
	hit := util.DDARaycast(rayStart, rayEnd, terrain.Map.IsSolidBlockAt)
	editor.LastHit = hit
	if !hit.Hit {
		return
	}

	target, block := hit.CollisionGridPosition, voxel.Air
	if placing {
		if hit.PreviousGridPosition == hit.CollisionGridPosition {
			return
		}
		target, block = hit.PreviousGridPosition, editor.Place
	}
	if _, err := terrain.Map.SetGlobalVoxel(target.X, target.Y, target.Z, block); err != nil {
		util.LogVoxelDebug(fmt.Sprintf("cannot edit %v: %v", target, err))
		return
	}
	for _, pos := range terrain.Map.AffectedChunks(target.X, target.Y, target.Z) {
		s.markNeedsMesh(w, terrain, pos)
	}
	editor.Edits++
	util.LogVoxelDebug(fmt.Sprintf("set %v to %v", target, block))
}
