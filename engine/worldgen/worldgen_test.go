package worldgen

import (
	"context"
	"math"
	"testing"

	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
)

func TestClassifyBlock(t *testing.T) {
	tests := []struct {
		y, height int32
		expected  voxel.BlockType
	}{
		{45, 50, voxel.Snow},
		{40, 40, voxel.Snow},
		{39, 39, voxel.Grass},
		{20, 20, voxel.Grass},
		{15, 20, voxel.Dirt},
		{11, 20, voxel.Dirt},
		{10, 20, voxel.Stone},
		{1, 20, voxel.Stone},
		{0, 20, voxel.Air},
		{25, 20, voxel.Water},
		{30, 20, voxel.Water},
		{31, 20, voxel.Air},
		{40, 39, voxel.Air},
		{5, 3, voxel.Water},
	}
	for _, test := range tests {
		if got := ClassifyBlock(test.y, test.height); got != test.expected {
			t.Errorf("ClassifyBlock(%d, %d) = %v, expected %v", test.y, test.height, got, test.expected)
		}
	}
}

func TestHeightmapDeterministic(t *testing.T) {
	a := NewHeightmapGenerator(1234, 0)
	b := NewHeightmapGenerator(1234, DefaultFrequency)
	pos := voxel.Int3{X: 1, Y: 0, Z: -2}

	ca, cb := a.GenerateChunk(pos), b.GenerateChunk(pos)
	blocksA, blocksB := ca.Blocks(), cb.Blocks()
	for i := range blocksA {
		if blocksA[i] != blocksB[i] {
			t.Fatalf("chunks differ at index %d", i)
		}
	}
	if ca.Position() != pos {
		t.Errorf("chunk position = %v", ca.Position())
	}
}

func TestChunkHeightmapLayout(t *testing.T) {
	g := NewHeightmapGenerator(99, 0)
	pos := voxel.Int3{X: 2, Y: 0, Z: 3}
	heightmap := g.ChunkHeightmap(pos)
	if len(heightmap) != int(voxel.CHUNK_SIZE_SQUARED) {
		t.Fatalf("heightmap has %d entries", len(heightmap))
	}
	for _, xz := range [][2]int32{{0, 0}, {5, 17}, {31, 0}, {0, 31}, {31, 31}} {
		x, z := xz[0], xz[1]
		expected := g.HeightAt(pos.X*voxel.CHUNK_SIZE+x, pos.Z*voxel.CHUNK_SIZE+z)
		if got := heightmap[z*voxel.CHUNK_SIZE+x]; got != expected {
			t.Errorf("heightmap[%d,%d] = %d, expected %d", x, z, got, expected)
		}
	}
	for _, h := range heightmap {
		if h < 0 || h > voxel.CHUNK_HEIGHT {
			t.Fatalf("height %d outside [0, %d]", h, voxel.CHUNK_HEIGHT)
		}
	}
}

func TestHeightmapSurface(t *testing.T) {
	g := NewHeightmapGenerator(7, 0)
	pos := voxel.Int3{}
	heightmap := g.ChunkHeightmap(pos)
	c := ChunkVoxels(pos, heightmap)
	for z := int32(0); z < voxel.CHUNK_SIZE; z++ {
		for x := int32(0); x < voxel.CHUNK_SIZE; x++ {
			h := heightmap[z*voxel.CHUNK_SIZE+x]
			if h > 0 && h < 40 {
				if got := c.Block(x, h, z); got != voxel.Grass {
					t.Fatalf("surface at %d,%d,%d is %v", x, h, z, got)
				}
			}
			if got := c.Block(x, 0, z); got == voxel.Stone {
				t.Fatalf("y=0 at %d,%d should not be stone", x, z)
			}
		}
	}
}

func TestChunkSeed(t *testing.T) {
	if got := ChunkSeed(voxel.Int3{X: 1, Y: 2, Z: 3}); got != 114 {
		t.Errorf("ChunkSeed(1,2,3) = %d", got)
	}
	if got := ChunkSeed(voxel.Int3{X: -1}); got != math.MaxUint64 {
		t.Errorf("ChunkSeed(-1,0,0) = %d, expected wrap around", got)
	}
}

func TestFlatAndNopGenerators(t *testing.T) {
	flat := FlatGenerator{Height: 5, Top: voxel.Grass, Fill: voxel.Dirt}
	c := flat.GenerateChunk(voxel.Int3{})
	if c.Block(3, 4, 3) != voxel.Grass || c.Block(3, 3, 3) != voxel.Dirt || c.Block(3, 5, 3) != voxel.Air {
		t.Error("flat layers wrong")
	}
	if c.RenderedVoxelsCount() != int(5*voxel.CHUNK_SIZE_SQUARED) {
		t.Errorf("flat chunk has %d solid voxels", c.RenderedVoxelsCount())
	}
	if flat.HeightAt(100, -100) != 4 {
		t.Errorf("flat HeightAt = %d", flat.HeightAt(100, -100))
	}
	upper := flat.GenerateChunk(voxel.Int3{Y: 1})
	if !upper.IsEmpty() {
		t.Error("chunk above the flat level should be empty")
	}

	nop := NopGenerator{}
	if !nop.GenerateChunk(voxel.Int3{X: 3}).IsEmpty() {
		t.Error("nop generator produced voxels")
	}
}

func TestNewGenerator(t *testing.T) {
	for name, expected := range map[string]string{
		"":          "heightmap",
		"Heightmap": "heightmap",
		"legacy":    "legacy",
		"flat":      "flat",
		"empty":     "nop",
	} {
		gen, err := NewGenerator(name, Options{Seed: 1, FlatLevel: 8})
		if err != nil {
			t.Fatalf("NewGenerator(%q): %v", name, err)
		}
		if gen.Name() != expected {
			t.Errorf("NewGenerator(%q).Name() = %q", name, gen.Name())
		}
	}
	if _, err := NewGenerator("caves", Options{}); !errors.Is(err, ErrUnknownGenerator) {
		t.Errorf("expected ErrUnknownGenerator, got %v", err)
	}
}

func TestLegacyGeneratorMatchesHeight(t *testing.T) {
	g := NewLegacyGenerator(0)
	pos := voxel.Int3{X: 1, Z: 1}
	c := g.GenerateChunk(pos)
	wx, wz := pos.X*voxel.CHUNK_SIZE+4, pos.Z*voxel.CHUNK_SIZE+9
	h := g.HeightAt(wx, wz)
	if h >= 0 && h < voxel.CHUNK_HEIGHT-1 {
		if c.Block(4, h, 9) != voxel.Stone || c.Block(4, h+1, 9) != voxel.Air {
			t.Errorf("column 4,9 does not top out at %d", h)
		}
	}
}

func TestParallelGenerateTerrainMatchesSequential(t *testing.T) {
	gen := NewHeightmapGenerator(5, 0)
	size := voxel.Int3{X: 2, Y: 1, Z: 2}

	sequential := voxel.NewChunkMap(5)
	expected := GenerateTerrain(sequential, gen, size)

	parallel := voxel.NewChunkMap(5)
	got, err := ParallelGenerateTerrain(context.Background(), parallel, gen, size, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != expected {
		t.Errorf("parallel solid count %d, sequential %d", got, expected)
	}
	if parallel.Len() != 4 || sequential.Len() != 4 {
		t.Errorf("chunk counts %d / %d", parallel.Len(), sequential.Len())
	}
	if expected != sequential.SolidVoxelCount() {
		t.Errorf("returned %d, map holds %d solid voxels", expected, sequential.SolidVoxelCount())
	}
}

func TestParallelGenerateTerrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := voxel.NewChunkMap(1)
	_, err := ParallelGenerateTerrain(ctx, m, NopGenerator{}, voxel.Int3{X: 4, Y: 1, Z: 4}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("cancelled generation inserted %d chunks", m.Len())
	}
}

func TestTerrainPositionsOrder(t *testing.T) {
	positions := TerrainPositions(voxel.Int3{X: 2, Y: 2, Z: 1})
	expected := []voxel.Int3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}}
	if len(positions) != len(expected) {
		t.Fatalf("got %v", positions)
	}
	for i := range expected {
		if positions[i] != expected[i] {
			t.Errorf("position %d = %v, expected %v", i, positions[i], expected[i])
		}
	}
	if TerrainPositions(voxel.Int3{X: 0, Y: 1, Z: 1}) != nil {
		t.Error("empty size should yield no positions")
	}
}
