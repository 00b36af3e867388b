package voxel

import "github.com/pkg/errors"

const (
	CHUNK_SIZE         int32 = 32
	CHUNK_HEIGHT       int32 = 64
	SEA_LEVEL          int32 = 30
	CHUNK_SIZE_SQUARED int32 = CHUNK_SIZE * CHUNK_SIZE
	CHUNK_VOLUME       int32 = CHUNK_SIZE * CHUNK_HEIGHT * CHUNK_SIZE
)

var (
	ErrOutOfBounds    = errors.New("voxel position out of bounds")
	ErrChunkNotLoaded = errors.New("chunk not loaded")
	ErrInvalidFormat  = errors.New("invalid map format")
	ErrUnknownMesher  = errors.New("unknown mesh algorithm")
	ErrUnknownBlock   = errors.New("unknown block type")
)

// FloorDiv rounds towards negative infinity, so voxel -1 lives in chunk -1.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the non-negative remainder matching FloorDiv.
func FloorMod(a, b int32) int32 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// ChunkPosOf returns the chunk containing the world voxel and the voxel's local coordinates inside it.
func ChunkPosOf(x, y, z int32) (chunkPos Int3, local Int3) {
	chunkPos = Int3{FloorDiv(x, CHUNK_SIZE), FloorDiv(y, CHUNK_HEIGHT), FloorDiv(z, CHUNK_SIZE)}
	local = Int3{FloorMod(x, CHUNK_SIZE), FloorMod(y, CHUNK_HEIGHT), FloorMod(z, CHUNK_SIZE)}
	return chunkPos, local
}
