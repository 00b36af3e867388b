package voxel

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type BlockType byte

const (
	Air BlockType = iota
	Stone
	Dirt
	Grass
	Snow
	Water
	blockTypeCount
)

var blockNames = [blockTypeCount]string{"air", "stone", "dirt", "grass", "snow", "water"}

var blockColors = [blockTypeCount][4]float32{
	Air:   {0, 0, 0, 0},
	Stone: {0.5, 0.5, 0.5, 1},
	Dirt:  {0.5, 0.25, 0, 1},
	Grass: {0, 0.5, 0, 1},
	Snow:  {1, 1, 1, 1},
	Water: {0, 0, 1, 0.5},
}

// Color is the RGBA vertex colour used for every face of this block.
func (b BlockType) Color() [4]float32 {
	if !b.Valid() {
		return blockColors[Air]
	}
	return blockColors[b]
}

func (b BlockType) IsSolid() bool {
	return b != Air
}

func (b BlockType) IsAir() bool {
	return b == Air
}

// IsTransparent reports whether faces behind this block can be seen through it.
func (b BlockType) IsTransparent() bool {
	return b == Air || b == Water
}

func (b BlockType) Valid() bool {
	return b < blockTypeCount
}

func (b BlockType) String() string {
	if !b.Valid() {
		return fmt.Sprintf("block(%d)", byte(b))
	}
	return blockNames[b]
}

func ParseBlockType(name string) (BlockType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range blockNames {
		if n == name {
			return BlockType(i), nil
		}
	}
	return Air, errors.Wrapf(ErrUnknownBlock, "%q", name)
}

// Voxel is a single cell as seen by callers; the chunk itself only stores the BlockType.
type Voxel struct {
	ID    int32
	Solid bool
	Type  BlockType
}

func NewVoxel(id int32, blockType BlockType) Voxel {
	return Voxel{ID: id, Solid: blockType.IsSolid(), Type: blockType}
}
