package voxel

type FaceType int32

const (
	XP FaceType = iota
	XN
	YP
	YN
	ZP
	ZN
)

var AllFaces = [6]FaceType{XP, XN, YP, YN, ZP, ZN}

var faceNames = [6]string{"x+", "x-", "y+", "y-", "z+", "z-"}

func (f FaceType) Axis() int {
	return int(f) / 2
}

func (f FaceType) Positive() bool {
	return f%2 == 0
}

func (f FaceType) Opposite() FaceType {
	return f ^ 1
}

// Offset is the grid step from a voxel to the neighbour behind this face.
func (f FaceType) Offset() Int3 {
	var o Int3
	step := int32(1)
	if !f.Positive() {
		step = -1
	}
	return o.with(f.Axis(), step)
}

func (f FaceType) Normal() [3]float32 {
	o := f.Offset()
	return [3]float32{float32(o.X), float32(o.Y), float32(o.Z)}
}

func (f FaceType) String() string {
	if f < 0 || f > ZN {
		return "invalid"
	}
	return faceNames[f]
}

func (i Int3) axis(a int) int32 {
	switch a {
	case 0:
		return i.X
	case 1:
		return i.Y
	default:
		return i.Z
	}
}

func (i Int3) with(a int, value int32) Int3 {
	switch a {
	case 0:
		i.X = value
	case 1:
		i.Y = value
	default:
		i.Z = value
	}
	return i
}

// Quad is a rectangle on a voxel face plane in chunk-local coordinates.
// Corners are counter-clockwise when seen from outside the solid.
type Quad struct {
	Corners [4]Int3
	Face    FaceType
	Block   BlockType
}

// quadCorners spans w voxels along the face's first tangent axis and h along the second,
// starting at the voxel position base.
func quadCorners(face FaceType, base Int3, w, h int32) [4]Int3 {
	d := face.Axis()
	u := (d + 1) % 3
	v := (d + 2) % 3
	p := base
	if face.Positive() {
		p = p.with(d, p.axis(d)+1)
	}
	du := Int3{}.with(u, w)
	dv := Int3{}.with(v, h)
	if face.Positive() {
		return [4]Int3{p, p.Add(du), p.Add(du).Add(dv), p.Add(dv)}
	}
	return [4]Int3{p, p.Add(dv), p.Add(du).Add(dv), p.Add(du)}
}

// Mesh is indexed triangle geometry for one chunk, positioned relative to Origin.
type Mesh struct {
	Origin    Int3
	Positions [][3]float32
	Normals   [][3]float32
	Colors    [][4]float32
	Indices   []uint32
	Quads     []Quad
}

func NewMesh(origin Int3) *Mesh {
	return &Mesh{Origin: origin}
}

var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

func (m *Mesh) AppendQuad(corners [4]Int3, face FaceType, block BlockType) {
	offset := uint32(len(m.Positions))
	normal := face.Normal()
	color := block.Color()
	for _, c := range corners {
		m.Positions = append(m.Positions, [3]float32{float32(c.X), float32(c.Y), float32(c.Z)})
		m.Normals = append(m.Normals, normal)
		m.Colors = append(m.Colors, color)
	}
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, offset+i)
	}
	m.Quads = append(m.Quads, Quad{Corners: corners, Face: face, Block: block})
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

func (m *Mesh) Reset() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.Colors = m.Colors[:0]
	m.Indices = m.Indices[:0]
	m.Quads = m.Quads[:0]
}
