package game

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/mlange-42/arche/ecs"
)

// RenderView is everything a renderer needs from the world for one frame.
type RenderView struct {
	ViewProjection mgl32.Mat4
	CameraPosition mgl32.Vec3
	LightPosition  mgl32.Vec3
	LightColor     mgl32.Vec3
	LightRange     float32
	Wireframe      bool
}

// DrawItem is one chunk mesh that passed frustum culling.
type DrawItem struct {
	Pos     voxel.Int3
	Mesh    *voxel.Mesh
	Version uint64
	// Model places the chunk-local mesh in the world.
	Model mgl32.Mat4
}

const referenceLightIntensity = 1500

// CollectDrawList reads the active camera and light, then returns the non-empty chunk meshes
// inside the camera frustum sorted by chunk position. ok is false without a camera.
func CollectDrawList(w *ecs.World) (view RenderView, items []DrawItem, ok bool) {
	transforms := app.NewComponent[Transform](w)
	cameras := app.NewComponent[Camera3D](w)
	cams := cameras.Entities()
	if len(cams) == 0 {
		return view, nil, false
	}
	camTransform := transforms.Get(cams[0])
	if camTransform == nil {
		return view, nil, false
	}
	view.ViewProjection = cameras.Get(cams[0]).ViewProjection(camTransform)
	view.CameraPosition = camTransform.Translation
	if wf := app.GetResource[Wireframe](w); wf != nil {
		view.Wireframe = wf.Enabled
	}

	lights := app.NewComponent[PointLight](w)
	if ls := lights.Entities(); len(ls) > 0 {
		light := lights.Get(ls[0])
		if t := transforms.Get(ls[0]); t != nil {
			view.LightPosition = t.Translation
		}
		scale := util.Clamp(light.Intensity/referenceLightIntensity, 0, 1)
		view.LightColor = mgl32.Vec3{light.Color[0], light.Color[1], light.Color[2]}.Mul(scale)
		view.LightRange = light.Range
	}

	planes := util.FrustumPlanes(view.ViewProjection)
	positions := app.NewComponent[ChunkPosition](w)
	meshes := app.NewComponent[ChunkMesh](w)
	chunks := app.NewComponent[ChunkData](w)
	query := w.Query(ecs.All(positions.ID(), meshes.ID(), chunks.ID()))
	for query.Next() {
		e := query.Entity()
		m := meshes.Get(e)
		if m.Mesh == nil || m.Mesh.IsEmpty() {
			continue
		}
		pos := positions.Get(e).Int3
		if !voxel.IsChunkVisibleInFrustum(planes, pos) {
			continue
		}
		items = append(items, DrawItem{Pos: pos, Mesh: m.Mesh, Version: m.Version, Model: chunks.Get(e).Chunk.GetMatrix()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Pos.Less(items[j].Pos) })
	return view, items, true
}
