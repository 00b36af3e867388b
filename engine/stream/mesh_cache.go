package stream

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/sasha-s/go-deadlock"
)

// MeshCache keeps the most recently inserted meshes by content key and evicts the oldest first.
type MeshCache struct {
	mu       deadlock.Mutex
	capacity int
	entries  *orderedmap.OrderedMap[uint64, *voxel.Mesh]
	hits     uint64
	misses   uint64
}

func NewMeshCache(capacity int) *MeshCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &MeshCache{
		capacity: capacity,
		entries:  orderedmap.NewOrderedMap[uint64, *voxel.Mesh](),
	}
}

func (c *MeshCache) Get(key uint64) (*voxel.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mesh, ok := c.entries.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return mesh, ok
}

func (c *MeshCache) Put(key uint64, mesh *voxel.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries.Get(key); ok {
		c.entries.Set(key, mesh)
		return
	}
	for c.entries.Len() >= c.capacity {
		oldest := c.entries.Front()
		c.entries.Delete(oldest.Key)
	}
	c.entries.Set(key, mesh)
}

func (c *MeshCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *MeshCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
