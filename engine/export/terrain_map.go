package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
)

var ErrInvalidTerrainLine = errors.New("invalid terrain map line")

// TerrainPoint is one line of a terrain map: a world position and whether the voxel there is solid.
type TerrainPoint struct {
	Pos   voxel.Int3
	Solid bool
}

// WriteTerrainMap writes one "x,y,z,true|false" line per voxel in ascending position order.
func WriteTerrainMap(w io.Writer, world *voxel.WorldMap) error {
	bw := bufio.NewWriter(w)
	for _, pos := range world.Positions() {
		v, _ := world.Voxel(pos.X, pos.Y, pos.Z)
		if _, err := fmt.Fprintf(bw, "%d,%d,%d,%t\n", pos.X, pos.Y, pos.Z, v.Solid); err != nil {
			return errors.Wrap(err, "writing terrain map")
		}
	}
	return errors.Wrap(bw.Flush(), "writing terrain map")
}

func WriteTerrainMapFile(path string, world *voxel.WorldMap) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating terrain map")
	}
	defer f.Close()
	if err := WriteTerrainMap(f, world); err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "closing terrain map")
}

// ReadTerrainMap parses the output of WriteTerrainMap. Blank lines are skipped.
func ReadTerrainMap(r io.Reader) ([]TerrainPoint, error) {
	var result []TerrainPoint
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 4 {
			return nil, errors.Wrapf(ErrInvalidTerrainLine, "line %d: %q", line, text)
		}
		var coords [3]int32
		for i := 0; i < 3; i++ {
			n, err := strconv.ParseInt(strings.TrimSpace(fields[i]), 10, 32)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidTerrainLine, "line %d: %v", line, err)
			}
			coords[i] = int32(n)
		}
		result = append(result, TerrainPoint{
			Pos:   voxel.Int3{X: coords[0], Y: coords[1], Z: coords[2]},
			Solid: strings.EqualFold(strings.TrimSpace(fields[3]), "true"),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading terrain map")
	}
	return result, nil
}
