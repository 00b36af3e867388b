package worldgen

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
)

// TerrainPositions lists every chunk position in [0,size) in generation order (z, x, y).
func TerrainPositions(size voxel.Int3) []voxel.Int3 {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil
	}
	result := make([]voxel.Int3, 0, size.X*size.Y*size.Z)
	for z := int32(0); z < size.Z; z++ {
		for x := int32(0); x < size.X; x++ {
			for y := int32(0); y < size.Y; y++ {
				result = append(result, voxel.Int3{X: x, Y: y, Z: z})
			}
		}
	}
	return result
}

// GenerateTerrain fills m with every chunk in [0,size) and returns the number of solid voxels.
func GenerateTerrain(m *voxel.ChunkMap, gen Generator, size voxel.Int3) int {
	solid := 0
	for _, pos := range TerrainPositions(size) {
		c := gen.GenerateChunk(pos)
		solid += c.RenderedVoxelsCount()
		m.InsertChunk(c)
	}
	util.LogVoxelInfo(fmt.Sprintf("Solid Voxels: %d", solid))
	return solid
}

// ParallelGenerateTerrain produces the same map as GenerateTerrain using workers goroutines.
// Workers <= 0 uses GOMAXPROCS. Chunks generated before a cancellation stay in the map.
func ParallelGenerateTerrain(ctx context.Context, m *voxel.ChunkMap, gen Generator, size voxel.Int3, workers int) (int, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	positions := TerrainPositions(size)
	jobs := make(chan voxel.Int3)
	counts := make(chan int, workers)

	var g sync.WaitGroup
	for i := 0; i < workers; i++ {
		g.Add(1)
		go func() {
			defer g.Done()
			solid := 0
			for pos := range jobs {
				c := gen.GenerateChunk(pos)
				solid += c.RenderedVoxelsCount()
				m.InsertChunk(c)
			}
			counts <- solid
		}()
	}

	var err error
feed:
	for _, pos := range positions {
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), "terrain generation cancelled")
			break
		}
		select {
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "terrain generation cancelled")
			break feed
		case jobs <- pos:
		}
	}
	close(jobs)
	g.Wait()
	close(counts)

	solid := 0
	for n := range counts {
		solid += n
	}
	if err != nil {
		return solid, err
	}
	util.LogVoxelInfo(fmt.Sprintf("Solid Voxels: %d", solid))
	return solid, nil
}
