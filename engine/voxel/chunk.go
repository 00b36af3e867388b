package voxel

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

// Chunk is a dense CHUNK_SIZE x CHUNK_HEIGHT x CHUNK_SIZE block of voxels.
type Chunk struct {
	mu         deadlock.RWMutex
	data       []BlockType
	position   Int3
	solidCount int32
	isDirty    bool
}

func NewChunk(position Int3) *Chunk {
	return &Chunk{
		data:     make([]BlockType, CHUNK_VOLUME),
		position: position,
		isDirty:  true,
	}
}

// NewChunkFromBlocks wraps a block slice laid out in blockIndex order.
func NewChunkFromBlocks(position Int3, blocks []BlockType) (*Chunk, error) {
	if int32(len(blocks)) != CHUNK_VOLUME {
		return nil, errors.Wrapf(ErrInvalidFormat, "chunk %v has %d blocks, expected %d", position, len(blocks), CHUNK_VOLUME)
	}
	c := &Chunk{
		data:     make([]BlockType, CHUNK_VOLUME),
		position: position,
		isDirty:  true,
	}
	for i, b := range blocks {
		if !b.Valid() {
			return nil, errors.Wrapf(ErrInvalidFormat, "chunk %v: invalid block id %d at %d", position, b, i)
		}
		c.data[i] = b
		if b.IsSolid() {
			c.solidCount++
		}
	}
	return c, nil
}

func blockIndex(x, y, z int32) int32 {
	return x*CHUNK_HEIGHT*CHUNK_SIZE + y*CHUNK_SIZE + z
}

// DecodeID is the inverse of the voxel ID assignment.
func DecodeID(id int32) Int3 {
	return Int3{
		X: id / (CHUNK_HEIGHT * CHUNK_SIZE),
		Y: (id / CHUNK_SIZE) % CHUNK_HEIGHT,
		Z: id % CHUNK_SIZE,
	}
}

func Contains(x, y, z int32) bool {
	return x >= 0 && x < CHUNK_SIZE && y >= 0 && y < CHUNK_HEIGHT && z >= 0 && z < CHUNK_SIZE
}

func (c *Chunk) Size() Int3 {
	return Int3{CHUNK_SIZE, CHUNK_HEIGHT, CHUNK_SIZE}
}

// Voxel returns false for coordinates outside the chunk.
func (c *Chunk) Voxel(x, y, z int32) (Voxel, bool) {
	if !Contains(x, y, z) {
		return Voxel{}, false
	}
	index := blockIndex(x, y, z)
	c.mu.RLock()
	blockType := c.data[index]
	c.mu.RUnlock()
	return NewVoxel(index, blockType), true
}

// Block returns Air for coordinates outside the chunk.
func (c *Chunk) Block(x, y, z int32) BlockType {
	if !Contains(x, y, z) {
		return Air
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[blockIndex(x, y, z)]
}

func (c *Chunk) SetVoxel(x, y, z int32, blockType BlockType) error {
	if !Contains(x, y, z) {
		return errors.Wrapf(ErrOutOfBounds, "local position %d,%d,%d", x, y, z)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(blockIndex(x, y, z), blockType)
	return nil
}

// Fill sets every voxel from fn while holding the write lock once.
func (c *Chunk) Fill(fn func(x, y, z int32) BlockType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for x := int32(0); x < CHUNK_SIZE; x++ {
		for y := int32(0); y < CHUNK_HEIGHT; y++ {
			for z := int32(0); z < CHUNK_SIZE; z++ {
				c.setLocked(blockIndex(x, y, z), fn(x, y, z))
			}
		}
	}
}

func (c *Chunk) setLocked(index int32, blockType BlockType) {
	previous := c.data[index]
	if previous == blockType {
		return
	}
	if previous.IsSolid() {
		c.solidCount--
	}
	if blockType.IsSolid() {
		c.solidCount++
	}
	c.data[index] = blockType
	c.isDirty = true
}

// RenderedVoxelsCount is the number of solid voxels.
func (c *Chunk) RenderedVoxelsCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.solidCount)
}

func (c *Chunk) IsEmpty() bool {
	return c.RenderedVoxelsCount() == 0
}

func (c *Chunk) SolidVoxels() []Voxel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Voxel, 0, c.solidCount)
	for i, b := range c.data {
		if b.IsSolid() {
			result = append(result, NewVoxel(int32(i), b))
		}
	}
	return result
}

// Voxels returns all voxels in ID order.
func (c *Chunk) Voxels() []Voxel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Voxel, len(c.data))
	for i, b := range c.data {
		result[i] = NewVoxel(int32(i), b)
	}
	return result
}

// Blocks returns a copy of the raw block data.
func (c *Chunk) Blocks() []BlockType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]BlockType, len(c.data))
	copy(result, c.data)
	return result
}

func (c *Chunk) Position() Int3 {
	return c.position
}

// Origin is the world position of local voxel 0,0,0.
func (c *Chunk) Origin() Int3 {
	return Int3{c.position.X * CHUNK_SIZE, c.position.Y * CHUNK_HEIGHT, c.position.Z * CHUNK_SIZE}
}

func (c *Chunk) GetMatrix() mgl32.Mat4 {
	o := c.Origin().ToVec3()
	return mgl32.Translate3D(o.X(), o.Y(), o.Z())
}

func (c *Chunk) Bounds() cube.BBox {
	return ChunkBounds(c.position)
}

func ChunkBounds(chunkPos Int3) cube.BBox {
	min := Int3{chunkPos.X * CHUNK_SIZE, chunkPos.Y * CHUNK_HEIGHT, chunkPos.Z * CHUNK_SIZE}.ToVec3()
	max := min.Add(mgl32.Vec3{float32(CHUNK_SIZE), float32(CHUNK_HEIGHT), float32(CHUNK_SIZE)})
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}

func (c *Chunk) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isDirty
}

func (c *Chunk) SetDirty() {
	c.mu.Lock()
	c.isDirty = true
	c.mu.Unlock()
}

func (c *Chunk) ClearDirty() {
	c.mu.Lock()
	c.isDirty = false
	c.mu.Unlock()
}

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	return Int3{i.X * factor, i.Y * factor, i.Z * factor}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Div(factor int32) Int3 {
	return Int3{FloorDiv(i.X, factor), FloorDiv(i.Y, factor), FloorDiv(i.Z, factor)}
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

func (i Int3) ToBlockCenterVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X) + 0.5, float32(i.Y) + 0.5, float32(i.Z) + 0.5}
}

func (i Int3) Less(other Int3) bool {
	if i.X != other.X {
		return i.X < other.X
	}
	if i.Y != other.Y {
		return i.Y < other.Y
	}
	return i.Z < other.Z
}

func (i Int3) String() string {
	return fmt.Sprintf("%d,%d,%d", i.X, i.Y, i.Z)
}

// ToGridInt3 returns the voxel containing a world position.
func ToGridInt3(pos mgl32.Vec3) Int3 {
	return Int3{floor32(pos.X()), floor32(pos.Y()), floor32(pos.Z())}
}

func floor32(v float32) int32 {
	i := int32(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
