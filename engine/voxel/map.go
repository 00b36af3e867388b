package voxel

import (
	"math/rand"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

// ChunkMap is the authoritative chunk storage of a world.
type ChunkMap struct {
	mu     deadlock.RWMutex
	chunks map[Int3]*Chunk
	seed   uint64
}

// NewChunkMap creates an empty map. A zero seed picks a random one.
func NewChunkMap(seed uint64) *ChunkMap {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return &ChunkMap{
		chunks: make(map[Int3]*Chunk),
		seed:   seed,
	}
}

func (m *ChunkMap) Seed() uint64 {
	return m.seed
}

// InsertChunk stores c at its own position, replacing any previous chunk there.
func (m *ChunkMap) InsertChunk(c *Chunk) {
	m.mu.Lock()
	m.chunks[c.Position()] = c
	m.mu.Unlock()
}

func (m *ChunkMap) Chunk(pos Int3) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[pos]
	return c, ok
}

func (m *ChunkMap) ChunkExists(pos Int3) bool {
	_, ok := m.Chunk(pos)
	return ok
}

func (m *ChunkMap) RemoveChunk(pos Int3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chunks[pos]; !ok {
		return false
	}
	delete(m.chunks, pos)
	return true
}

func (m *ChunkMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Positions returns all loaded chunk positions in ascending x, y, z order.
func (m *ChunkMap) Positions() []Int3 {
	m.mu.RLock()
	result := make([]Int3, 0, len(m.chunks))
	for pos := range m.chunks {
		result = append(result, pos)
	}
	m.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

// Range visits chunks in Positions order until fn returns false.
func (m *ChunkMap) Range(fn func(c *Chunk) bool) {
	for _, pos := range m.Positions() {
		c, ok := m.Chunk(pos)
		if !ok {
			continue
		}
		if !fn(c) {
			return
		}
	}
}

// GlobalBlock returns Air for voxels in chunks that are not loaded.
func (m *ChunkMap) GlobalBlock(x, y, z int32) BlockType {
	chunkPos, local := ChunkPosOf(x, y, z)
	c, ok := m.Chunk(chunkPos)
	if !ok {
		return Air
	}
	return c.Block(local.X, local.Y, local.Z)
}

func (m *ChunkMap) IsSolidBlockAt(x, y, z int32) bool {
	return m.GlobalBlock(x, y, z).IsSolid()
}

func (m *ChunkMap) GlobalVoxel(x, y, z int32) (Voxel, error) {
	chunkPos, local := ChunkPosOf(x, y, z)
	c, ok := m.Chunk(chunkPos)
	if !ok {
		return Voxel{}, errors.Wrapf(ErrChunkNotLoaded, "chunk %v", chunkPos)
	}
	v, _ := c.Voxel(local.X, local.Y, local.Z)
	return v, nil
}

// SetGlobalVoxel changes one voxel and returns the chunk that now needs a new mesh.
func (m *ChunkMap) SetGlobalVoxel(x, y, z int32, blockType BlockType) (Int3, error) {
	chunkPos, local := ChunkPosOf(x, y, z)
	c, ok := m.Chunk(chunkPos)
	if !ok {
		return chunkPos, errors.Wrapf(ErrChunkNotLoaded, "chunk %v", chunkPos)
	}
	return chunkPos, c.SetVoxel(local.X, local.Y, local.Z, blockType)
}

// AffectedChunks lists the loaded chunks whose mesh depends on the world voxel:
// its own chunk plus any neighbour it borders.
func (m *ChunkMap) AffectedChunks(x, y, z int32) []Int3 {
	chunkPos, local := ChunkPosOf(x, y, z)
	result := []Int3{chunkPos}
	size := Int3{CHUNK_SIZE, CHUNK_HEIGHT, CHUNK_SIZE}
	for _, face := range AllFaces {
		a := face.Axis()
		onBorder := (face.Positive() && local.axis(a) == size.axis(a)-1) || (!face.Positive() && local.axis(a) == 0)
		if !onBorder {
			continue
		}
		n := chunkPos.Add(face.Offset())
		if m.ChunkExists(n) {
			result = append(result, n)
		}
	}
	return result
}

// Neighbors snapshots the touching layers of all loaded neighbours of pos.
func (m *ChunkMap) Neighbors(pos Int3) *Neighbors {
	var chunks [6]*Chunk
	m.mu.RLock()
	for _, face := range AllFaces {
		chunks[face] = m.chunks[pos.Add(face.Offset())]
	}
	m.mu.RUnlock()

	var n Neighbors
	for _, face := range AllFaces {
		if chunks[face] != nil {
			n[face] = chunks[face].Border(face.Opposite())
		}
	}
	return &n
}

// CleanChunks removes chunks whose horizontal distance to center exceeds radius chunks.
func (m *ChunkMap) CleanChunks(radius float32, center Int3) []Int3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []Int3
	for pos := range m.chunks {
		if !chunkInRange(radius, pos, center) {
			delete(m.chunks, pos)
			removed = append(removed, pos)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].Less(removed[j]) })
	return removed
}

func chunkInRange(radius float32, pos, center Int3) bool {
	dx := float32(pos.X - center.X)
	dz := float32(pos.Z - center.Z)
	return math32.Sqrt(dx*dx+dz*dz) <= radius
}

func (m *ChunkMap) Purge() {
	m.mu.Lock()
	m.chunks = make(map[Int3]*Chunk)
	m.mu.Unlock()
}

func (m *ChunkMap) SolidVoxelCount() int {
	total := 0
	m.Range(func(c *Chunk) bool {
		total += c.RenderedVoxelsCount()
		return true
	})
	return total
}

// GetGroundPosition walks down from startBlock to the first air voxel resting on a solid one.
func (m *ChunkMap) GetGroundPosition(startBlock Int3) Int3 {
	pos := startBlock
	for m.IsSolidBlockAt(pos.X, pos.Y, pos.Z) {
		pos.Y++
	}
	for pos.Y > 0 && !m.IsSolidBlockAt(pos.X, pos.Y-1, pos.Z) {
		pos.Y--
	}
	return pos
}

// IsChunkVisibleInFrustum tests the chunk's bounding box against the frustum planes.
func IsChunkVisibleInFrustum(planes []mgl32.Vec4, chunkPos Int3) bool {
	box := ChunkBounds(chunkPos)
	lo, hi := box.Min(), box.Max()
	points := [8]mgl32.Vec3{
		{lo.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), hi.Z()},
		{lo.X(), lo.Y(), hi.Z()},
		{lo.X(), hi.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()},
	}
	for _, plane := range planes {
		var in, out int
		for _, point := range points {
			if plane.Dot(point.Vec4(1)) < 0 {
				out++
			} else {
				in++
			}
			if in != 0 && out != 0 {
				break
			}
		}
		if in == 0 {
			return false
		}
	}
	return true
}
