package game

import (
	"github.com/memmaker/voxelengine/engine/stream"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/mlange-42/arche/ecs"
)

// Terrain is the world resource shared by all voxel systems.
type Terrain struct {
	Map       *voxel.ChunkMap
	Generator worldgen.Generator
	Mesher    voxel.Mesher
	Cache     *stream.MeshCache
	Entities  map[voxel.Int3]ecs.Entity
}

type Wireframe struct {
	Enabled bool
}

type Diagnostics struct {
	FPS   util.FPSCounter
	Text  string
	Color [4]float32
}

// StreamState tracks chunk loading around the camera.
type StreamState struct {
	Streamer     *stream.Streamer
	Center       voxel.Int3
	LoadRadius   int32
	UnloadRadius float32
	Layers       int32
	MaxPerFrame  int
	Loaded       int
	Unloaded     int
	// Cancelled counts queued requests dropped after the camera moved away.
	Cancelled int
}

type BlockEditor struct {
	Place   voxel.BlockType
	Reach   float32
	LastHit util.HitInfo3D
	Edits   int
}
