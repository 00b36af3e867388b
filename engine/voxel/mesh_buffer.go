package voxel

import (
	"github.com/pkg/errors"
)

type DrawMode int

const (
	Flat DrawMode = iota
	Indexed
)

const (
	packBitsX     = 6
	packBitsY     = 7
	packBitsZ     = 6
	packBitsFace  = 3
	packShiftY    = packBitsX
	packShiftZ    = packShiftY + packBitsY
	packShiftFace = packShiftZ + packBitsZ
	packShiftType = packShiftFace + packBitsFace
)

// PackedBuffer is the GPU upload format: one uint32 per vertex holding the
// chunk-local corner position, the face direction and the block type.
type PackedBuffer struct {
	drawMode    DrawMode
	vertexData  []uint32
	indexBuffer []uint32
	indexMap    map[uint32]uint32
	vertexCount int
}

func NewPackedBuffer(mode DrawMode) *PackedBuffer {
	return &PackedBuffer{
		drawMode: mode,
		indexMap: make(map[uint32]uint32),
	}
}

// Pack converts all quads of the mesh into a new buffer.
func Pack(mesh *Mesh, mode DrawMode) (*PackedBuffer, error) {
	buffer := NewPackedBuffer(mode)
	if err := buffer.PackMesh(mesh); err != nil {
		return nil, err
	}
	return buffer, nil
}

// PackMesh replaces the buffer contents with the quads of mesh, reusing the
// allocated slices.
func (m *PackedBuffer) PackMesh(mesh *Mesh) error {
	m.Reset()
	for _, q := range mesh.Quads {
		if err := m.AppendQuad(q); err != nil {
			return err
		}
	}
	return nil
}

func (m *PackedBuffer) AppendQuad(q Quad) error {
	var packed [4]uint32
	for i, corner := range q.Corners {
		v, err := Compress(corner, q.Face, q.Block)
		if err != nil {
			return err
		}
		packed[i] = v
	}
	for _, i := range quadIndices {
		m.addVertex(packed[i])
	}
	m.vertexCount += 6
	return nil
}

func (m *PackedBuffer) addVertex(vertex uint32) {
	if m.drawMode != Indexed {
		m.vertexData = append(m.vertexData, vertex)
		return
	}
	if vertexIndex, isCached := m.indexMap[vertex]; isCached {
		m.indexBuffer = append(m.indexBuffer, vertexIndex)
		return
	}
	vertexIndex := uint32(len(m.vertexData))
	m.vertexData = append(m.vertexData, vertex)
	m.indexMap[vertex] = vertexIndex
	m.indexBuffer = append(m.indexBuffer, vertexIndex)
}

func (m *PackedBuffer) DrawMode() DrawMode {
	return m.drawMode
}

func (m *PackedBuffer) VertexData() []uint32 {
	return m.vertexData
}

// Indices is empty in Flat mode.
func (m *PackedBuffer) Indices() []uint32 {
	return m.indexBuffer
}

func (m *PackedBuffer) TriangleCount() int {
	return m.vertexCount / 3
}

func (m *PackedBuffer) Reset() {
	clear(m.indexMap)
	m.indexBuffer = m.indexBuffer[:0]
	m.vertexData = m.vertexData[:0]
	m.vertexCount = 0
}

// Compress packs a corner position, face direction and block type into 30 bits.
func Compress(position Int3, face FaceType, block BlockType) (uint32, error) {
	if position.X < 0 || position.X >= 1<<packBitsX ||
		position.Y < 0 || position.Y >= 1<<packBitsY ||
		position.Z < 0 || position.Z >= 1<<packBitsZ {
		return 0, errors.Wrapf(ErrOutOfBounds, "cannot pack corner %v", position)
	}
	if face < XP || face > ZN {
		return 0, errors.Errorf("cannot pack face %d", face)
	}
	v := uint32(position.X) |
		uint32(position.Y)<<packShiftY |
		uint32(position.Z)<<packShiftZ |
		uint32(face)<<packShiftFace |
		uint32(block)<<packShiftType
	return v, nil
}

func Decompress(v uint32) (Int3, FaceType, BlockType) {
	pos := Int3{
		X: int32(v & (1<<packBitsX - 1)),
		Y: int32((v >> packShiftY) & (1<<packBitsY - 1)),
		Z: int32((v >> packShiftZ) & (1<<packBitsZ - 1)),
	}
	face := FaceType((v >> packShiftFace) & (1<<packBitsFace - 1))
	block := BlockType((v >> packShiftType) & 0xff)
	return pos, face, block
}
