package voxel

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

var mapMagic = [4]byte{'V', 'X', 'L', 'M'}

const mapFormatVersion uint8 = 1

type mapHeader struct {
	Magic       [4]byte
	Version     uint8
	Seed        uint64
	ChunkSize   int32
	ChunkHeight int32
	ChunkCount  uint32
}

// SaveChunkMap writes all chunks as a gzip compressed little endian stream.
func (m *ChunkMap) SaveChunkMap(w io.Writer) error {
	positions := m.Positions()
	gzipWriter := gzip.NewWriter(w)
	header := mapHeader{
		Magic:       mapMagic,
		Version:     mapFormatVersion,
		Seed:        m.seed,
		ChunkSize:   CHUNK_SIZE,
		ChunkHeight: CHUNK_HEIGHT,
		ChunkCount:  uint32(len(positions)),
	}
	if err := binary.Write(gzipWriter, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "write map header")
	}
	raw := make([]byte, CHUNK_VOLUME)
	for _, pos := range positions {
		c, ok := m.Chunk(pos)
		if !ok {
			return errors.Wrapf(ErrChunkNotLoaded, "chunk %v vanished while saving", pos)
		}
		if err := binary.Write(gzipWriter, binary.LittleEndian, [3]int32{pos.X, pos.Y, pos.Z}); err != nil {
			return errors.Wrapf(err, "write chunk %v position", pos)
		}
		for i, b := range c.Blocks() {
			raw[i] = byte(b)
		}
		if _, err := gzipWriter.Write(raw); err != nil {
			return errors.Wrapf(err, "write chunk %v blocks", pos)
		}
	}
	return errors.Wrap(gzipWriter.Close(), "close gzip stream")
}

// LoadChunkMap reads a stream produced by SaveChunkMap.
func LoadChunkMap(r io.Reader) (*ChunkMap, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	defer gzipReader.Close()

	var header mapHeader
	if err := binary.Read(gzipReader, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read map header")
	}
	if header.Magic != mapMagic {
		return nil, errors.Wrapf(ErrInvalidFormat, "bad magic %q", header.Magic[:])
	}
	if header.Version != mapFormatVersion {
		return nil, errors.Wrapf(ErrInvalidFormat, "unsupported version %d", header.Version)
	}
	if header.ChunkSize != CHUNK_SIZE || header.ChunkHeight != CHUNK_HEIGHT {
		return nil, errors.Wrapf(ErrInvalidFormat, "chunk dimensions %dx%d, expected %dx%d", header.ChunkSize, header.ChunkHeight, CHUNK_SIZE, CHUNK_HEIGHT)
	}

	m := NewChunkMap(header.Seed)
	raw := make([]byte, CHUNK_VOLUME)
	blocks := make([]BlockType, CHUNK_VOLUME)
	for i := uint32(0); i < header.ChunkCount; i++ {
		var pos [3]int32
		if err := binary.Read(gzipReader, binary.LittleEndian, &pos); err != nil {
			return nil, errors.Wrapf(err, "read chunk %d position", i)
		}
		if _, err := io.ReadFull(gzipReader, raw); err != nil {
			return nil, errors.Wrapf(err, "read chunk %d blocks", i)
		}
		for j, b := range raw {
			blocks[j] = BlockType(b)
		}
		c, err := NewChunkFromBlocks(Int3{pos[0], pos[1], pos[2]}, blocks)
		if err != nil {
			return nil, err
		}
		m.InsertChunk(c)
	}
	return m, nil
}

func (m *ChunkMap) SaveToFile(filename string) error {
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create map file")
	}
	buffered := bufio.NewWriter(outfile)
	if err := m.SaveChunkMap(buffered); err != nil {
		outfile.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		outfile.Close()
		return errors.Wrap(err, "flush map file")
	}
	return errors.Wrap(outfile.Close(), "close map file")
}

func LoadFromFile(filename string) (*ChunkMap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open map file")
	}
	defer file.Close()
	return LoadChunkMap(bufio.NewReader(file))
}
