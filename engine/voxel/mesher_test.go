package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func chunkWith(blocks map[Int3]BlockType) *Chunk {
	c := NewChunk(Int3{})
	for pos, b := range blocks {
		if err := c.SetVoxel(pos.X, pos.Y, pos.Z, b); err != nil {
			panic(err)
		}
	}
	return c
}

func TestMesherQuadCounts(t *testing.T) {
	single := map[Int3]BlockType{{5, 5, 5}: Stone}
	pair := map[Int3]BlockType{{5, 5, 5}: Stone, {6, 5, 5}: Stone}
	waterNextToStone := map[Int3]BlockType{{5, 5, 5}: Stone, {6, 5, 5}: Water}

	tests := []struct {
		name   string
		blocks map[Int3]BlockType
		mesher Mesher
		quads  int
	}{
		{"naive single", single, NaiveMesher{}, 6},
		{"culled single", single, CulledMesher{}, 6},
		{"greedy single", single, GreedyMesher{}, 6},
		{"naive pair", pair, NaiveMesher{}, 12},
		{"culled pair", pair, CulledMesher{}, 10},
		{"greedy pair", pair, GreedyMesher{}, 6},
		{"culled water", waterNextToStone, CulledMesher{}, 11},
		{"greedy water", waterNextToStone, GreedyMesher{}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := tt.mesher.Mesh(chunkWith(tt.blocks), nil)
			if len(mesh.Quads) != tt.quads {
				t.Fatalf("got %d quads, expected %d", len(mesh.Quads), tt.quads)
			}
			if mesh.VertexCount() != tt.quads*4 {
				t.Errorf("got %d vertices, expected %d", mesh.VertexCount(), tt.quads*4)
			}
			if len(mesh.Indices) != tt.quads*6 {
				t.Errorf("got %d indices, expected %d", len(mesh.Indices), tt.quads*6)
			}
			if len(mesh.Normals) != mesh.VertexCount() || len(mesh.Colors) != mesh.VertexCount() {
				t.Errorf("attribute lengths differ from vertex count")
			}
		})
	}
}

func TestNaiveCubeLayout(t *testing.T) {
	mesh := NaiveMesher{}.Mesh(chunkWith(map[Int3]BlockType{{0, 0, 0}: Grass}), nil)
	if mesh.VertexCount() != 24 || len(mesh.Indices) != 36 || mesh.TriangleCount() != 12 {
		t.Fatalf("unexpected cube size: %d vertices, %d indices", mesh.VertexCount(), len(mesh.Indices))
	}
	expected := []uint32{0, 1, 2, 2, 3, 0}
	for i, index := range expected {
		if mesh.Indices[i] != index || mesh.Indices[i+6] != index+4 {
			t.Fatalf("unexpected index pattern %v", mesh.Indices[:12])
		}
	}
	if mesh.Normals[0] != [3]float32{0, 1, 0} {
		t.Errorf("first face should be the top face, normal %v", mesh.Normals[0])
	}
	for _, c := range mesh.Colors {
		if c != Grass.Color() {
			t.Fatalf("unexpected vertex colour %v", c)
		}
	}
}

func TestQuadWindingFacesOutward(t *testing.T) {
	for _, mesher := range []Mesher{NaiveMesher{}, CulledMesher{}, GreedyMesher{}} {
		mesh := mesher.Mesh(chunkWith(map[Int3]BlockType{{3, 3, 3}: Stone, {3, 4, 3}: Dirt}), nil)
		for _, q := range mesh.Quads {
			a, b, c := q.Corners[0].ToVec3(), q.Corners[1].ToVec3(), q.Corners[2].ToVec3()
			n := q.Face.Normal()
			if b.Sub(a).Cross(c.Sub(a)).Dot(mgl32.Vec3(n)) <= 0 {
				t.Errorf("%s: quad %v on face %v is wound inwards", mesher.Name(), q.Corners, q.Face)
			}
		}
	}
}

func TestGreedyMergesFullLayer(t *testing.T) {
	c := NewChunk(Int3{})
	c.Fill(func(x, y, z int32) BlockType {
		if y == 0 {
			return Stone
		}
		return Air
	})
	greedy := GreedyMesher{}.Mesh(c, nil)
	if len(greedy.Quads) != 6 {
		t.Errorf("greedy mesh of a full layer has %d quads, expected 6", len(greedy.Quads))
	}
	culled := CulledMesher{}.Mesh(c, nil)
	expected := int(2*CHUNK_SIZE*CHUNK_SIZE + 4*CHUNK_SIZE)
	if len(culled.Quads) != expected {
		t.Errorf("culled mesh has %d quads, expected %d", len(culled.Quads), expected)
	}
}

func TestNeighborBorderHidesFaces(t *testing.T) {
	c := chunkWith(map[Int3]BlockType{{31, 5, 5}: Stone})
	other := NewChunk(Int3{1, 0, 0})
	if err := other.SetVoxel(0, 5, 5, Stone); err != nil {
		t.Fatal(err)
	}
	var n Neighbors
	n[XP] = other.Border(XN)

	if got := len(CulledMesher{}.Mesh(c, &n).Quads); got != 5 {
		t.Errorf("culled mesh with neighbour has %d quads, expected 5", got)
	}
	if got := len(GreedyMesher{}.Mesh(c, &n).Quads); got != 5 {
		t.Errorf("greedy mesh with neighbour has %d quads, expected 5", got)
	}
	if got := len(CulledMesher{}.Mesh(c, nil).Quads); got != 6 {
		t.Errorf("without neighbours the border face must be drawn, got %d quads", got)
	}
}

func TestPackedBuffer(t *testing.T) {
	mesh := GreedyMesher{}.Mesh(chunkWith(map[Int3]BlockType{{31, 63, 31}: Snow}), nil)

	flat, err := Pack(mesh, Flat)
	if err != nil {
		t.Fatal(err)
	}
	if len(flat.VertexData()) != 36 || len(flat.Indices()) != 0 || flat.TriangleCount() != 12 {
		t.Errorf("flat buffer: %d vertices, %d indices", len(flat.VertexData()), len(flat.Indices()))
	}

	indexed, err := Pack(mesh, Indexed)
	if err != nil {
		t.Fatal(err)
	}
	if len(indexed.VertexData()) != 24 || len(indexed.Indices()) != 36 {
		t.Errorf("indexed buffer: %d vertices, %d indices", len(indexed.VertexData()), len(indexed.Indices()))
	}
	for _, v := range indexed.VertexData() {
		pos, face, block := Decompress(v)
		if block != Snow || face < XP || face > ZN {
			t.Fatalf("bad unpacked vertex %v %v %v", pos, face, block)
		}
		if pos.X < 31 || pos.X > 32 || pos.Y < 63 || pos.Y > 64 || pos.Z < 31 || pos.Z > 32 {
			t.Fatalf("unpacked corner %v outside the voxel", pos)
		}
	}
}

func TestPackMeshReusesBuffer(t *testing.T) {
	two := GreedyMesher{}.Mesh(chunkWith(map[Int3]BlockType{{1, 1, 1}: Stone, {5, 5, 5}: Dirt}), nil)
	one := GreedyMesher{}.Mesh(chunkWith(map[Int3]BlockType{{31, 63, 31}: Snow}), nil)

	buffer := NewPackedBuffer(Indexed)
	if err := buffer.PackMesh(two); err != nil {
		t.Fatal(err)
	}
	if len(buffer.VertexData()) != 48 || len(buffer.Indices()) != 72 {
		t.Fatalf("two cubes: %d vertices, %d indices", len(buffer.VertexData()), len(buffer.Indices()))
	}
	if err := buffer.PackMesh(one); err != nil {
		t.Fatal(err)
	}
	if len(buffer.VertexData()) != 24 || len(buffer.Indices()) != 36 || buffer.TriangleCount() != 12 {
		t.Errorf("repacked: %d vertices, %d indices", len(buffer.VertexData()), len(buffer.Indices()))
	}
	for _, i := range buffer.Indices() {
		if i >= 24 {
			t.Fatalf("index %d points past the repacked vertices", i)
		}
	}
}

func TestCompress(t *testing.T) {
	v, err := Compress(Int3{32, 64, 17}, ZN, Water)
	if err != nil {
		t.Fatal(err)
	}
	pos, face, block := Decompress(v)
	if pos != (Int3{32, 64, 17}) || face != ZN || block != Water {
		t.Errorf("Decompress = %v %v %v", pos, face, block)
	}
	for _, bad := range []Int3{{64, 0, 0}, {0, 128, 0}, {0, 0, -1}} {
		if _, err := Compress(bad, XP, Stone); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Compress(%v) should fail, got %v", bad, err)
		}
	}
}

func TestMeshKey(t *testing.T) {
	a := chunkWith(map[Int3]BlockType{{1, 1, 1}: Stone})
	b := chunkWith(map[Int3]BlockType{{1, 1, 1}: Stone})
	if MeshKey(a, nil) != MeshKey(b, nil) {
		t.Error("equal chunks must have equal keys")
	}
	if err := b.SetVoxel(2, 2, 2, Dirt); err != nil {
		t.Fatal(err)
	}
	if MeshKey(a, nil) == MeshKey(b, nil) {
		t.Error("different chunks must have different keys")
	}
	var n Neighbors
	n[YP] = NewChunk(Int3{0, 1, 0}).Border(YN)
	if MeshKey(a, nil) == MeshKey(a, &n) {
		t.Error("a loaded neighbour must change the key")
	}
}

func TestNewMesher(t *testing.T) {
	for _, name := range []string{MeshNaive, MeshCulled, MeshGreedy, " Greedy "} {
		if _, err := NewMesher(name); err != nil {
			t.Errorf("NewMesher(%q): %v", name, err)
		}
	}
	if _, err := NewMesher("marching-cubes"); !errors.Is(err, ErrUnknownMesher) {
		t.Errorf("expected ErrUnknownMesher, got %v", err)
	}
}

// execute with: go test -bench=. -test.benchmem
func BenchmarkGreedyMeshing(b *testing.B) {
	c := NewChunk(Int3{})
	c.Fill(func(x, y, z int32) BlockType {
		if y < 20+(x+z)%7 {
			return Stone
		}
		return Air
	})
	for i := 0; i < b.N; i++ {
		_ = GreedyMesher{}.Mesh(c, nil)
	}
}
