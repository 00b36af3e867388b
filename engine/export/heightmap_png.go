package export

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// HeightmapImage renders the column heights of the area starting at world (x0, z0)
// as grey levels, black at height 0 and white at the chunk height.
func HeightmapImage(gen worldgen.Generator, x0, z0 int32, width, depth int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, depth))
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			h := gen.HeightAt(x0+int32(x), z0+int32(z))
			img.SetGray(x, z, color.Gray{Y: heightToGray(h)})
		}
	}
	return img
}

func heightToGray(h int32) uint8 {
	switch {
	case h <= 0:
		return 0
	case h >= voxel.CHUNK_HEIGHT:
		return 255
	}
	return uint8(h * 255 / voxel.CHUNK_HEIGHT)
}

// WriteHeightmapPNG encodes the heightmap of the area, enlarged by scale with nearest neighbour sampling.
func WriteHeightmapPNG(w io.Writer, gen worldgen.Generator, x0, z0 int32, width, depth, scale int) error {
	if width <= 0 || depth <= 0 {
		return errors.Errorf("invalid heightmap size %dx%d", width, depth)
	}
	var img image.Image = HeightmapImage(gen, x0, z0, width, depth)
	if scale > 1 {
		scaled := image.NewGray(image.Rect(0, 0, width*scale, depth*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = scaled
	}
	return errors.Wrap(png.Encode(w, img), "encoding heightmap")
}
