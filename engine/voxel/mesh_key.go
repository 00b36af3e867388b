package voxel

import (
	"github.com/zeebo/xxh3"
)

// MeshKey hashes everything a mesh depends on: the chunk's blocks and the
// neighbour layers. Chunks with equal keys produce identical local meshes.
func MeshKey(c *Chunk, neighbors *Neighbors) uint64 {
	hasher := xxh3.New()
	blocks := c.Blocks()
	raw := make([]byte, len(blocks))
	for i, b := range blocks {
		raw[i] = byte(b)
	}
	_, _ = hasher.Write(raw)
	for _, face := range AllFaces {
		var slab *Slab
		if neighbors != nil {
			slab = neighbors[face]
		}
		if slab == nil {
			_, _ = hasher.Write([]byte{0})
			continue
		}
		layer := make([]byte, len(slab.Blocks)+1)
		layer[0] = 1
		for i, b := range slab.Blocks {
			layer[i+1] = byte(b)
		}
		_, _ = hasher.Write(layer)
	}
	return hasher.Sum64()
}
