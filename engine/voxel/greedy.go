package voxel

// GreedyMesher merges coplanar visible faces of the same block type into larger quads.
type GreedyMesher struct{}

func (GreedyMesher) Name() string { return MeshGreedy }

func (GreedyMesher) Mesh(c *Chunk, neighbors *Neighbors) *Mesh {
	// adapted from: https://github.com/roboleary/GreedyMesh/blob/master/src/mygame/Main.java
	mesh := NewMesh(c.Origin())
	dims := Int3{CHUNK_SIZE, CHUNK_HEIGHT, CHUNK_SIZE}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, face := range AllFaces {
		d := face.Axis()
		u := (d + 1) % 3
		v := (d + 2) % 3
		step := face.Offset()
		width, height := dims.axis(u), dims.axis(v)
		mask := make([]BlockType, width*height)

		for slice := int32(0); slice < dims.axis(d); slice++ {
			var n int32
			for j := int32(0); j < height; j++ {
				for i := int32(0); i < width; i++ {
					pos := Int3{}.with(d, slice).with(u, i).with(v, j)
					self := c.data[blockIndex(pos.X, pos.Y, pos.Z)]
					other := pos.Add(step)
					if faceVisible(self, c.blockAt(neighbors, other.X, other.Y, other.Z)) {
						mask[n] = self
					} else {
						mask[n] = Air
					}
					n++
				}
			}

			n = 0
			for j := int32(0); j < height; j++ {
				for i := int32(0); i < width; {
					current := mask[n]
					if current == Air {
						i++
						n++
						continue
					}
					w := int32(1)
					for i+w < width && mask[n+w] == current {
						w++
					}
					h := int32(1)
				grow:
					for j+h < height {
						for k := int32(0); k < w; k++ {
							if mask[n+k+h*width] != current {
								break grow
							}
						}
						h++
					}

					base := Int3{}.with(d, slice).with(u, i).with(v, j)
					mesh.AppendQuad(quadCorners(face, base, w, h), face, current)

					for l := int32(0); l < h; l++ {
						for k := int32(0); k < w; k++ {
							mask[n+k+l*width] = Air
						}
					}
					i += w
					n += w
				}
			}
		}
	}
	return mesh
}
