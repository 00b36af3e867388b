package worldgen

import (
	"strings"

	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
)

var ErrUnknownGenerator = errors.New("unknown generator")

// Generator produces the initial content of chunks. Implementations must be
// deterministic and safe for concurrent use.
type Generator interface {
	GenerateChunk(pos voxel.Int3) *voxel.Chunk
	// HeightAt returns the world y of the topmost solid voxel in the column.
	HeightAt(x, z int32) int32
	Name() string
}

type Options struct {
	Seed      uint64
	Frequency float64
	FlatLevel int32
}

func NewGenerator(name string, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "heightmap", "":
		return NewHeightmapGenerator(opts.Seed, opts.Frequency), nil
	case "legacy":
		return NewLegacyGenerator(opts.Frequency), nil
	case "flat":
		return FlatGenerator{Height: opts.FlatLevel, Top: voxel.Grass, Fill: voxel.Dirt}, nil
	case "nop", "empty":
		return NopGenerator{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownGenerator, "%q", name)
}

// NopGenerator leaves every chunk empty.
type NopGenerator struct{}

func (NopGenerator) Name() string { return "nop" }

func (NopGenerator) GenerateChunk(pos voxel.Int3) *voxel.Chunk {
	return voxel.NewChunk(pos)
}

func (NopGenerator) HeightAt(x, z int32) int32 {
	return -1
}

// FlatGenerator fills everything below Height with Fill and caps it with Top.
type FlatGenerator struct {
	Height int32
	Top    voxel.BlockType
	Fill   voxel.BlockType
}

func (FlatGenerator) Name() string { return "flat" }

func (f FlatGenerator) GenerateChunk(pos voxel.Int3) *voxel.Chunk {
	c := voxel.NewChunk(pos)
	baseY := pos.Y * voxel.CHUNK_HEIGHT
	c.Fill(func(x, y, z int32) voxel.BlockType {
		worldY := baseY + y
		switch {
		case worldY == f.Height-1:
			return f.Top
		case worldY < f.Height-1:
			return f.Fill
		}
		return voxel.Air
	})
	return c
}

func (f FlatGenerator) HeightAt(x, z int32) int32 {
	return f.Height - 1
}

// ChunkSeed derives a per-chunk seed as x + 31*y + 17*z with wrapping arithmetic.
func ChunkSeed(pos voxel.Int3) uint64 {
	return uint64(int64(pos.X)) + uint64(int64(pos.Y))*31 + uint64(int64(pos.Z))*17
}
