package worldgen

import (
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/ojrac/opensimplex-go"
)

const (
	DefaultFrequency = 0.3
	snowLine         = int32(40)
	dirtDepth        = int32(10)
)

// HeightmapGenerator layers three octaves of simplex noise into a height per column
// and classifies voxels into snow, grass, dirt, stone and water bands.
type HeightmapGenerator struct {
	seed      uint64
	frequency float64
	noise     opensimplex.Noise
}

func NewHeightmapGenerator(seed uint64, frequency float64) *HeightmapGenerator {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &HeightmapGenerator{
		seed:      seed,
		frequency: frequency,
		noise:     opensimplex.New(int64(seed)),
	}
}

func (g *HeightmapGenerator) Name() string { return "heightmap" }

func (g *HeightmapGenerator) Seed() uint64 { return g.seed }

func (g *HeightmapGenerator) sample(x, z float64) float64 {
	return g.noise.Eval2(x*g.frequency, z*g.frequency)
}

func (g *HeightmapGenerator) HeightAt(x, z int32) int32 {
	fx, fz := float64(x), float64(z)
	n := g.sample(fx/16, fz/16)*0.5 +
		g.sample(fx/32, fz/32)*0.25 +
		g.sample(fx/64, fz/64)*0.25
	normalized := (n + 1) / 2
	return int32(normalized * float64(voxel.CHUNK_HEIGHT))
}

// ChunkHeightmap returns the column heights of a chunk, indexed z*CHUNK_SIZE + x.
func (g *HeightmapGenerator) ChunkHeightmap(pos voxel.Int3) []int32 {
	heightmap := make([]int32, 0, voxel.CHUNK_SIZE_SQUARED)
	for z := int32(0); z < voxel.CHUNK_SIZE; z++ {
		for x := int32(0); x < voxel.CHUNK_SIZE; x++ {
			heightmap = append(heightmap, g.HeightAt(pos.X*voxel.CHUNK_SIZE+x, pos.Z*voxel.CHUNK_SIZE+z))
		}
	}
	return heightmap
}

func heightmapIndex(x, z int32) int32 {
	return z*voxel.CHUNK_SIZE + x
}

func (g *HeightmapGenerator) GenerateChunk(pos voxel.Int3) *voxel.Chunk {
	return ChunkVoxels(pos, g.ChunkHeightmap(pos))
}

// ChunkVoxels builds a chunk from a heightmap produced by ChunkHeightmap.
func ChunkVoxels(pos voxel.Int3, heightmap []int32) *voxel.Chunk {
	c := voxel.NewChunk(pos)
	baseY := pos.Y * voxel.CHUNK_HEIGHT
	c.Fill(func(x, y, z int32) voxel.BlockType {
		return ClassifyBlock(baseY+y, heightmap[heightmapIndex(x, z)])
	})
	return c
}

// ClassifyBlock picks the block type for world height y in a column whose surface is at height.
// The bands are tested in order, so snow wins over grass above the snow line.
func ClassifyBlock(y, height int32) voxel.BlockType {
	switch {
	case y >= snowLine && y <= height:
		return voxel.Snow
	case y == height:
		return voxel.Grass
	case y > height-dirtDepth && y <= height:
		return voxel.Dirt
	case y > 0 && y <= height:
		return voxel.Stone
	case y <= voxel.SEA_LEVEL && y > height:
		return voxel.Water
	}
	return voxel.Air
}

// LegacyGenerator seeds a separate noise source per chunk and fills every voxel
// up to a height of 16 +- 16 with stone. Neighbouring chunks do not line up.
type LegacyGenerator struct {
	frequency float64
}

func NewLegacyGenerator(frequency float64) LegacyGenerator {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return LegacyGenerator{frequency: frequency}
}

func (LegacyGenerator) Name() string { return "legacy" }

func (g LegacyGenerator) columnHeight(noise opensimplex.Noise, x, z int32) int32 {
	return int32(noise.Eval2(float64(x)*g.frequency, float64(z)*g.frequency)*16 + 16)
}

func (g LegacyGenerator) GenerateChunk(pos voxel.Int3) *voxel.Chunk {
	noise := opensimplex.New(int64(ChunkSeed(pos)))
	heights := make([]int32, voxel.CHUNK_SIZE_SQUARED)
	for z := int32(0); z < voxel.CHUNK_SIZE; z++ {
		for x := int32(0); x < voxel.CHUNK_SIZE; x++ {
			heights[heightmapIndex(x, z)] = g.columnHeight(noise, pos.X*voxel.CHUNK_SIZE+x, pos.Z*voxel.CHUNK_SIZE+z)
		}
	}
	c := voxel.NewChunk(pos)
	baseY := pos.Y * voxel.CHUNK_HEIGHT
	c.Fill(func(x, y, z int32) voxel.BlockType {
		if baseY+y <= heights[heightmapIndex(x, z)] {
			return voxel.Stone
		}
		return voxel.Air
	})
	return c
}

func (g LegacyGenerator) HeightAt(x, z int32) int32 {
	chunkPos, _ := voxel.ChunkPosOf(x, 0, z)
	return g.columnHeight(opensimplex.New(int64(ChunkSeed(chunkPos))), x, z)
}
