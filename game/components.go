package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
)

type ChunkPosition struct {
	voxel.Int3
}

type ChunkData struct {
	Chunk *voxel.Chunk
}

// ChunkMesh is the current mesh of a chunk entity. Version increases with every rebuild.
type ChunkMesh struct {
	Mesh    *voxel.Mesh
	Key     uint64
	Version uint64
}

// NeedsMesh marks chunk entities whose mesh is missing or outdated.
type NeedsMesh struct{}

type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func NewTransform(translation mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// LookTo rotates the transform so its forward axis (-Z) points along direction.
func (t *Transform) LookTo(direction, up mgl32.Vec3) {
	if direction.Len() == 0 {
		return
	}
	direction = direction.Normalize()
	rotation := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, direction)
	right := direction.Cross(up)
	if right.Len() > 1e-6 {
		desiredUp := right.Normalize().Cross(direction)
		currentUp := rotation.Rotate(mgl32.Vec3{0, 1, 0})
		rotation = mgl32.QuatBetweenVectors(currentUp, desiredUp).Mul(rotation)
	}
	t.Rotation = rotation.Normalize()
}

func (t *Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

type Camera3D struct {
	Projection util.Projection
}

// ViewProjection combines the camera projection with the inverse of its transform.
func (c *Camera3D) ViewProjection(t *Transform) mgl32.Mat4 {
	return c.Projection.Matrix().Mul4(t.Matrix().Inv())
}

type FlyCamera struct {
	util.FlyCamera
}

type PointLight struct {
	Intensity float32
	Range     float32
	Color     [4]float32
}
