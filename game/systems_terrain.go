package game

import (
	"context"
	"fmt"

	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/mlange-42/arche/ecs"
)

func (s *systems) setupTerrain(w *ecs.World) {
	terrain := app.GetResource[Terrain](w)
	_, err := worldgen.ParallelGenerateTerrain(context.Background(), terrain.Map, terrain.Generator, s.settings.WorldSize(), s.settings.Stream.Workers)
	if err != nil {
		util.LogVoxelError(err.Error())
	}
	terrain.Map.Range(func(c *voxel.Chunk) bool {
		s.spawnChunk(w, terrain, c)
		return true
	})
	util.LogECSInfo(fmt.Sprintf("spawned %d chunk entities", len(terrain.Entities)))
}

// spawnChunk creates or refreshes the entity of c and queues it for meshing.
func (s *systems) spawnChunk(w *ecs.World, terrain *Terrain, c *voxel.Chunk) ecs.Entity {
	pos := c.Position()
	e, ok := terrain.Entities[pos]
	if !ok || !w.Alive(e) {
		e = w.NewEntity(s.chunkPos.ID(), s.chunkData.ID(), s.needsMesh.ID())
		terrain.Entities[pos] = e
	} else {
		s.needsMesh.Set(e, NeedsMesh{})
	}
	s.chunkPos.Get(e).Int3 = pos
	s.chunkData.Get(e).Chunk = c
	return e
}

func (s *systems) despawnChunk(w *ecs.World, terrain *Terrain, pos voxel.Int3) {
	e, ok := terrain.Entities[pos]
	if !ok {
		return
	}
	delete(terrain.Entities, pos)
	if w.Alive(e) {
		w.RemoveEntity(e)
	}
}

func (s *systems) markNeedsMesh(w *ecs.World, terrain *Terrain, pos voxel.Int3) {
	e, ok := terrain.Entities[pos]
	if !ok || !w.Alive(e) {
		return
	}
	s.needsMesh.Set(e, NeedsMesh{})
}

// markNeighbors queues the loaded neighbours of pos, whose border faces depend on it.
func (s *systems) markNeighbors(w *ecs.World, terrain *Terrain, pos voxel.Int3) {
	for _, face := range voxel.AllFaces {
		neighbor := pos.Add(face.Offset())
		if c, ok := terrain.Map.Chunk(neighbor); ok {
			c.SetDirty()
		}
		s.markNeedsMesh(w, terrain, neighbor)
	}
}

func (s *systems) remeshChunks(w *ecs.World) {
	terrain := app.GetResource[Terrain](w)
	for _, e := range s.needsMesh.Entities() {
		data := s.chunkData.Get(e)
		if data == nil || data.Chunk == nil {
			s.needsMesh.Remove(e)
			continue
		}
		c := data.Chunk
		neighbors := terrain.Map.Neighbors(c.Position())
		key := voxel.MeshKey(c, neighbors)
		mesh, ok := terrain.Cache.Get(key)
		if ok {
			shared := *mesh
			shared.Origin = c.Origin()
			mesh = &shared
		} else {
			mesh = terrain.Mesher.Mesh(c, neighbors)
			terrain.Cache.Put(key, mesh)
		}

		version := uint64(1)
		if current := s.chunkMesh.Get(e); current != nil {
			version = current.Version + 1
		}
		s.chunkMesh.Set(e, ChunkMesh{Mesh: mesh, Key: key, Version: version})
		c.ClearDirty()
		s.needsMesh.Remove(e)
		util.LogVoxelDebug(fmt.Sprintf("meshed chunk %v: %d triangles", c.Position(), mesh.TriangleCount()))
	}
}

// streamChunks requests chunks around the camera, spawns finished ones and unloads distant ones.
func (s *systems) streamChunks(w *ecs.World) {
	state := app.GetResource[StreamState](w)
	terrain := app.GetResource[Terrain](w)
	cam, ok := s.activeCamera()
	if state == nil || !ok {
		return
	}
	position := s.fly.Get(cam).Position
	center, _ := voxel.ChunkPosOf(int32(util.Floor(position.X())), 0, int32(util.Floor(position.Z())))
	center.Y = 0
	if center != state.Center {
		util.LogStreamInfo(fmt.Sprintf("stream center moved to %v", center))
	}
	state.Center = center

	r := state.LoadRadius
	state.Cancelled += state.Streamer.CancelWhere(func(pos voxel.Int3) bool {
		dx, dz := pos.X-center.X, pos.Z-center.Z
		return dx*dx+dz*dz > r*r
	})
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			for y := int32(0); y < state.Layers; y++ {
				pos := voxel.Int3{X: center.X + dx, Y: y, Z: center.Z + dz}
				if !terrain.Map.ChunkExists(pos) {
					state.Streamer.Request(pos)
				}
			}
		}
	}
	state.Streamer.Pump()

	for _, result := range state.Streamer.Drain(state.MaxPerFrame) {
		if result.Err != nil {
			util.LogStreamError(result.Err.Error())
			continue
		}
		terrain.Map.InsertChunk(result.Chunk)
		s.spawnChunk(w, terrain, result.Chunk)
		s.markNeighbors(w, terrain, result.Pos)
		state.Loaded++
	}

	for _, pos := range terrain.Map.CleanChunks(state.UnloadRadius, center) {
		s.despawnChunk(w, terrain, pos)
		s.markNeighbors(w, terrain, pos)
		state.Unloaded++
		util.LogStreamDebug(fmt.Sprintf("unloaded chunk %v", pos))
	}
}
