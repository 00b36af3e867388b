package voxel

import (
	"compress/gzip"
	"io"

	"github.com/Tnze/go-mc/nbt"
	"github.com/pkg/errors"
)

/*
	TAG_Compound({
	    "seed": TAG_Long(),
	    "chunk_size": TAG_Int(),
	    "chunk_height": TAG_Int(),
	    "chunks": TAG_List([
	        TAG_Compound({
	            "x": TAG_Int(), "y": TAG_Int(), "z": TAG_Int(),
	            "blocks": TAG_Byte_Array()
	        })
	    ])
	})
*/
type nbtWorld struct {
	Seed        int64      `nbt:"seed"`
	ChunkSize   int32      `nbt:"chunk_size"`
	ChunkHeight int32      `nbt:"chunk_height"`
	Chunks      []nbtChunk `nbt:"chunks"`
}

type nbtChunk struct {
	X      int32  `nbt:"x"`
	Y      int32  `nbt:"y"`
	Z      int32  `nbt:"z"`
	Blocks []byte `nbt:"blocks"`
}

// EncodeNBT writes the map as a gzip compressed NBT compound.
func (m *ChunkMap) EncodeNBT(w io.Writer) error {
	world := nbtWorld{
		Seed:        int64(m.seed),
		ChunkSize:   CHUNK_SIZE,
		ChunkHeight: CHUNK_HEIGHT,
	}
	for _, pos := range m.Positions() {
		c, ok := m.Chunk(pos)
		if !ok {
			continue
		}
		blocks := c.Blocks()
		raw := make([]byte, len(blocks))
		for i, b := range blocks {
			raw[i] = byte(b)
		}
		world.Chunks = append(world.Chunks, nbtChunk{X: pos.X, Y: pos.Y, Z: pos.Z, Blocks: raw})
	}
	data, err := nbt.Marshal(world)
	if err != nil {
		return errors.Wrap(err, "marshal nbt world")
	}
	gzipWriter := gzip.NewWriter(w)
	if _, err := gzipWriter.Write(data); err != nil {
		return errors.Wrap(err, "write nbt world")
	}
	return errors.Wrap(gzipWriter.Close(), "close gzip stream")
}

func DecodeNBT(r io.Reader) (*ChunkMap, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	defer gzipReader.Close()

	var world nbtWorld
	if _, err := nbt.NewDecoder(gzipReader).Decode(&world); err != nil {
		return nil, errors.Wrap(err, "decode nbt world")
	}
	if world.ChunkSize != CHUNK_SIZE || world.ChunkHeight != CHUNK_HEIGHT {
		return nil, errors.Wrapf(ErrInvalidFormat, "chunk dimensions %dx%d", world.ChunkSize, world.ChunkHeight)
	}
	m := NewChunkMap(uint64(world.Seed))
	blocks := make([]BlockType, CHUNK_VOLUME)
	for _, nc := range world.Chunks {
		if int32(len(nc.Blocks)) != CHUNK_VOLUME {
			return nil, errors.Wrapf(ErrInvalidFormat, "chunk %d,%d,%d has %d blocks", nc.X, nc.Y, nc.Z, len(nc.Blocks))
		}
		for i, b := range nc.Blocks {
			blocks[i] = BlockType(b)
		}
		c, err := NewChunkFromBlocks(Int3{nc.X, nc.Y, nc.Z}, blocks)
		if err != nil {
			return nil, err
		}
		m.InsertChunk(c)
	}
	return m, nil
}
