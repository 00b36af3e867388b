package voxel

// Slab is one outer layer of a chunk. Faces on the X axis index it by (y,z),
// faces on the Y axis by (x,z) and faces on the Z axis by (x,y).
type Slab struct {
	Face   FaceType
	Blocks []BlockType
}

// Neighbors holds the touching layer of each adjacent chunk, indexed by the face of the
// meshed chunk it touches. A nil entry means the neighbour is not loaded and counts as air.
type Neighbors [6]*Slab

func slabDims(face FaceType) (int32, int32) {
	switch face {
	case XP, XN:
		return CHUNK_HEIGHT, CHUNK_SIZE
	case YP, YN:
		return CHUNK_SIZE, CHUNK_SIZE
	default:
		return CHUNK_SIZE, CHUNK_HEIGHT
	}
}

func (s *Slab) At(a, b int32) BlockType {
	if s == nil {
		return Air
	}
	_, height := slabDims(s.Face)
	return s.Blocks[a*height+b]
}

// Border copies the outermost layer of the chunk on the given side.
func (c *Chunk) Border(face FaceType) *Slab {
	width, height := slabDims(face)
	slab := &Slab{Face: face, Blocks: make([]BlockType, width*height)}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for a := int32(0); a < width; a++ {
		for b := int32(0); b < height; b++ {
			var x, y, z int32
			switch face {
			case XP:
				x, y, z = CHUNK_SIZE-1, a, b
			case XN:
				x, y, z = 0, a, b
			case YP:
				x, y, z = a, CHUNK_HEIGHT-1, b
			case YN:
				x, y, z = a, 0, b
			case ZP:
				x, y, z = a, b, CHUNK_SIZE-1
			case ZN:
				x, y, z = a, b, 0
			}
			slab.Blocks[a*height+b] = c.data[blockIndex(x, y, z)]
		}
	}
	return slab
}

// blockAt resolves local coordinates that may step one voxel outside the chunk.
// Callers must hold the chunk's read lock.
func (c *Chunk) blockAt(neighbors *Neighbors, x, y, z int32) BlockType {
	if Contains(x, y, z) {
		return c.data[blockIndex(x, y, z)]
	}
	if neighbors == nil {
		return Air
	}
	switch {
	case x < 0:
		return neighbors[XN].At(y, z)
	case x >= CHUNK_SIZE:
		return neighbors[XP].At(y, z)
	case y < 0:
		return neighbors[YN].At(x, z)
	case y >= CHUNK_HEIGHT:
		return neighbors[YP].At(x, z)
	case z < 0:
		return neighbors[ZN].At(x, y)
	default:
		return neighbors[ZP].At(x, y)
	}
}

// faceVisible decides whether the face of self towards other must be drawn.
func faceVisible(self, other BlockType) bool {
	if !self.IsSolid() {
		return false
	}
	if other.IsAir() {
		return true
	}
	return other.IsTransparent() && other != self
}
