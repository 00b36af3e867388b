package voxel

import (
	"bytes"
	"compress/gzip"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func TestChunkMapGlobalVoxels(t *testing.T) {
	m := NewChunkMap(42)
	m.InsertChunk(NewChunk(Int3{-1, 0, -1}))
	m.InsertChunk(NewChunk(Int3{0, 0, 0}))

	chunkPos, err := m.SetGlobalVoxel(-1, 3, -1, Dirt)
	if err != nil {
		t.Fatal(err)
	}
	if chunkPos != (Int3{-1, 0, -1}) {
		t.Errorf("voxel -1,3,-1 landed in chunk %v", chunkPos)
	}
	c, _ := m.Chunk(Int3{-1, 0, -1})
	if c.Block(31, 3, 31) != Dirt {
		t.Error("voxel not stored at local 31,3,31")
	}
	v, err := m.GlobalVoxel(-1, 3, -1)
	if err != nil || v.Type != Dirt {
		t.Errorf("GlobalVoxel = %+v, %v", v, err)
	}
	if _, err := m.GlobalVoxel(100, 0, 0); !errors.Is(err, ErrChunkNotLoaded) {
		t.Errorf("expected ErrChunkNotLoaded, got %v", err)
	}
	if _, err := m.SetGlobalVoxel(0, -1, 0, Stone); !errors.Is(err, ErrChunkNotLoaded) {
		t.Errorf("expected ErrChunkNotLoaded below the world, got %v", err)
	}
	if m.GlobalBlock(500, 0, 500) != Air {
		t.Error("unloaded voxels read as air")
	}
	if m.SolidVoxelCount() != 1 {
		t.Errorf("SolidVoxelCount = %d", m.SolidVoxelCount())
	}
}

func TestChunkMapPositionsSorted(t *testing.T) {
	m := NewChunkMap(1)
	for _, p := range []Int3{{2, 0, 0}, {0, 0, 1}, {0, 0, 0}, {-1, 0, 5}} {
		m.InsertChunk(NewChunk(p))
	}
	expected := []Int3{{-1, 0, 5}, {0, 0, 0}, {0, 0, 1}, {2, 0, 0}}
	if got := m.Positions(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Positions = %v, expected %v", got, expected)
	}
	if !m.RemoveChunk(Int3{0, 0, 1}) || m.RemoveChunk(Int3{0, 0, 1}) {
		t.Error("RemoveChunk should succeed exactly once")
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestCleanChunks(t *testing.T) {
	m := NewChunkMap(1)
	for _, p := range []Int3{{0, 0, 0}, {1, 0, 0}, {5, 0, 0}, {0, 0, -4}, {2, 0, 2}} {
		m.InsertChunk(NewChunk(p))
	}
	removed := m.CleanChunks(3, Int3{})
	expected := []Int3{{0, 0, -4}, {5, 0, 0}}
	if !reflect.DeepEqual(removed, expected) {
		t.Errorf("removed %v, expected %v", removed, expected)
	}
	if m.Len() != 3 {
		t.Errorf("%d chunks left, expected 3", m.Len())
	}
	m.Purge()
	if m.Len() != 0 {
		t.Error("Purge left chunks behind")
	}
}

func TestAffectedChunks(t *testing.T) {
	m := NewChunkMap(1)
	for _, p := range []Int3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}} {
		m.InsertChunk(NewChunk(p))
	}
	got := m.AffectedChunks(31, 5, 0)
	expected := []Int3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("AffectedChunks = %v, expected %v", got, expected)
	}
	if got := m.AffectedChunks(10, 10, 10); len(got) != 1 {
		t.Errorf("inner voxel affects %v", got)
	}
}

func TestNeighborsSnapshot(t *testing.T) {
	m := NewChunkMap(1)
	center := NewChunk(Int3{})
	east := NewChunk(Int3{1, 0, 0})
	if err := east.SetVoxel(0, 7, 9, Snow); err != nil {
		t.Fatal(err)
	}
	m.InsertChunk(center)
	m.InsertChunk(east)
	n := m.Neighbors(Int3{})
	if n[XP] == nil || n[XN] != nil {
		t.Fatalf("unexpected neighbour set %v", n)
	}
	if n[XP].At(7, 9) != Snow {
		t.Error("east border does not contain the snow block")
	}
}

func TestGetGroundPosition(t *testing.T) {
	m := NewChunkMap(1)
	m.InsertChunk(NewChunk(Int3{}))
	for y := int32(0); y < 4; y++ {
		if _, err := m.SetGlobalVoxel(2, y, 2, Stone); err != nil {
			t.Fatal(err)
		}
	}
	if got := m.GetGroundPosition(Int3{2, 10, 2}); got != (Int3{2, 4, 2}) {
		t.Errorf("from above: %v", got)
	}
	if got := m.GetGroundPosition(Int3{2, 1, 2}); got != (Int3{2, 4, 2}) {
		t.Errorf("from inside: %v", got)
	}
}

func TestIsChunkVisibleInFrustum(t *testing.T) {
	// everything with x >= 100 is inside
	planes := []mgl32.Vec4{{1, 0, 0, -100}}
	if IsChunkVisibleInFrustum(planes, Int3{0, 0, 0}) {
		t.Error("chunk 0 spans x 0..32 and must be culled")
	}
	if !IsChunkVisibleInFrustum(planes, Int3{3, 0, 0}) {
		t.Error("chunk 3 spans x 96..128 and must be visible")
	}
}

func TestWorldMapCollectVoxels(t *testing.T) {
	m := NewChunkMap(1)
	c := NewChunk(Int3{1, 0, 0})
	if err := c.SetVoxel(0, 1, 2, Grass); err != nil {
		t.Fatal(err)
	}
	m.InsertChunk(c)
	w := NewWorldMap()
	w.CollectVoxels(m)
	if w.Len() != int(CHUNK_VOLUME) {
		t.Errorf("collected %d voxels", w.Len())
	}
	v, ok := w.Voxel(32, 1, 2)
	if !ok || v.Type != Grass || !v.Solid {
		t.Errorf("voxel at 32,1,2 = %+v, %v", v, ok)
	}
	if _, ok := w.Voxel(0, 1, 2); ok {
		t.Error("voxel outside the collected chunk reported")
	}
	if first := w.Positions()[0]; first != (Int3{32, 0, 0}) {
		t.Errorf("first position %v", first)
	}
}

func testMap() *ChunkMap {
	m := NewChunkMap(1234)
	a := NewChunk(Int3{0, 0, 0})
	a.Fill(func(x, y, z int32) BlockType {
		if y < 10 {
			return BlockType(1 + (x+z)%5)
		}
		return Air
	})
	b := NewChunk(Int3{-1, 0, 2})
	_ = b.SetVoxel(3, 3, 3, Water)
	m.InsertChunk(a)
	m.InsertChunk(b)
	return m
}

func assertSameMap(t *testing.T, expected, got *ChunkMap) {
	t.Helper()
	if got.Seed() != expected.Seed() {
		t.Errorf("seed %d, expected %d", got.Seed(), expected.Seed())
	}
	if !reflect.DeepEqual(got.Positions(), expected.Positions()) {
		t.Fatalf("positions %v, expected %v", got.Positions(), expected.Positions())
	}
	for _, pos := range expected.Positions() {
		e, _ := expected.Chunk(pos)
		g, _ := got.Chunk(pos)
		if !reflect.DeepEqual(e.Blocks(), g.Blocks()) {
			t.Errorf("chunk %v differs", pos)
		}
		if e.RenderedVoxelsCount() != g.RenderedVoxelsCount() {
			t.Errorf("chunk %v solid count %d, expected %d", pos, g.RenderedVoxelsCount(), e.RenderedVoxelsCount())
		}
	}
}

func TestSaveLoadChunkMap(t *testing.T) {
	m := testMap()
	var buf bytes.Buffer
	if err := m.SaveChunkMap(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadChunkMap(&buf)
	if err != nil {
		t.Fatal(err)
	}
	assertSameMap(t, m, loaded)
}

func TestSaveLoadFile(t *testing.T) {
	m := testMap()
	path := filepath.Join(t.TempDir(), "world.vxl")
	if err := m.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	assertSameMap(t, m, loaded)
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.vxl")); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestLoadChunkMapRejectsGarbage(t *testing.T) {
	if _, err := LoadChunkMap(bytes.NewReader([]byte("not gzip"))); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("ABCD\x01\x00\x00\x00\x00\x00\x00\x00\x00\x20\x00\x00\x00\x40\x00\x00\x00\x00\x00\x00\x00"))
	_ = zw.Close()
	if _, err := LoadChunkMap(&buf); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for bad magic, got %v", err)
	}
}

func TestNBTRoundTrip(t *testing.T) {
	m := testMap()
	var buf bytes.Buffer
	if err := m.EncodeNBT(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := DecodeNBT(&buf)
	if err != nil {
		t.Fatal(err)
	}
	assertSameMap(t, m, loaded)
}
