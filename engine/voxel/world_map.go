package voxel

import "sort"

// WorldMap is a flat view of every voxel keyed by its world position.
type WorldMap struct {
	voxels map[Int3]Voxel
}

func NewWorldMap() *WorldMap {
	return &WorldMap{voxels: make(map[Int3]Voxel)}
}

// CollectVoxels adds every voxel of every loaded chunk at its world position.
func (w *WorldMap) CollectVoxels(m *ChunkMap) {
	m.Range(func(c *Chunk) bool {
		origin := c.Origin()
		for _, v := range c.Voxels() {
			w.voxels[origin.Add(DecodeID(v.ID))] = v
		}
		return true
	})
}

// Voxel returns the collected voxel at a world position.
func (w *WorldMap) Voxel(x, y, z int32) (Voxel, bool) {
	v, ok := w.voxels[Int3{x, y, z}]
	return v, ok
}

func (w *WorldMap) Len() int {
	return len(w.voxels)
}

// Positions returns every position in ascending x, y, z order.
func (w *WorldMap) Positions() []Int3 {
	result := make([]Int3, 0, len(w.voxels))
	for pos := range w.voxels {
		result = append(result, pos)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}
