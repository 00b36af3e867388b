package export

import (
	"fmt"

	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuildDocument meshes every loaded chunk and adds one node per non-empty mesh,
// translated to the chunk origin.
func BuildDocument(m *voxel.ChunkMap, mesher voxel.Mesher) *gltf.Document {
	doc := gltf.NewDocument()
	m.Range(func(c *voxel.Chunk) bool {
		mesh := mesher.Mesh(c, m.Neighbors(c.Position()))
		if mesh.IsEmpty() {
			return true
		}
		addMesh(doc, fmt.Sprintf("chunk_%d_%d_%d", c.Position().X, c.Position().Y, c.Position().Z), mesh)
		return true
	})
	return doc
}

func addMesh(doc *gltf.Document, name string, mesh *voxel.Mesh) {
	colors := make([][4]uint8, len(mesh.Colors))
	for i, c := range mesh.Colors {
		colors[i] = [4]uint8{toByte(c[0]), toByte(c[1]), toByte(c[2]), toByte(c[3])}
	}
	primitive := &gltf.Primitive{
		Mode:    gltf.PrimitiveTriangles,
		Indices: gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
		Attributes: map[string]uint32{
			"POSITION": modeler.WritePosition(doc, mesh.Positions),
			"NORMAL":   modeler.WriteNormal(doc, mesh.Normals),
			"COLOR_0":  modeler.WriteColor(doc, colors),
		},
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{primitive}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        name,
		Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
		Translation: [3]float64{float64(mesh.Origin.X), float64(mesh.Origin.Y), float64(mesh.Origin.Z)},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

func toByte(v float32) uint8 {
	return uint8(util.Clamp(v, 0, 1)*255 + 0.5)
}

// SaveGLB writes the meshed map as a binary glTF file and returns the number of chunk meshes.
func SaveGLB(path string, m *voxel.ChunkMap, mesher voxel.Mesher) (int, error) {
	doc := BuildDocument(m, mesher)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return 0, errors.Wrapf(err, "saving %s", path)
	}
	util.LogIOInfo(fmt.Sprintf("saved %d chunk meshes to %s", len(doc.Meshes), path))
	return len(doc.Meshes), nil
}

// LoadedMesh is a triangle mesh read back from a glTF document.
type LoadedMesh struct {
	Name        string
	Translation [3]float64
	Positions   [][3]float32
	Normals     [][3]float32
	Colors      [][4]uint8
	Indices     []uint32
}

// LoadGLB reads every node that references a mesh. Only the first primitive of each mesh is read.
func LoadGLB(path string) ([]LoadedMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	var result []LoadedMesh
	for _, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		mesh := doc.Meshes[*node.Mesh]
		if len(mesh.Primitives) == 0 {
			continue
		}
		loaded, err := readPrimitive(doc, mesh.Primitives[0])
		if err != nil {
			return nil, errors.Wrapf(err, "reading mesh %s", mesh.Name)
		}
		loaded.Name = node.Name
		loaded.Translation = node.TranslationOrDefault()
		result = append(result, loaded)
	}
	return result, nil
}

func readPrimitive(doc *gltf.Document, primitive *gltf.Primitive) (LoadedMesh, error) {
	var mesh LoadedMesh
	var err error
	if primitive.Mode != gltf.PrimitiveTriangles {
		return mesh, errors.New("only triangles are supported")
	}
	if primitive.Indices == nil {
		return mesh, errors.New("mesh has no indices")
	}
	if mesh.Positions, err = modeler.ReadPosition(doc, doc.Accessors[primitive.Attributes["POSITION"]], nil); err != nil {
		return mesh, err
	}
	if mesh.Normals, err = modeler.ReadNormal(doc, doc.Accessors[primitive.Attributes["NORMAL"]], nil); err != nil {
		return mesh, err
	}
	if mesh.Colors, err = modeler.ReadColor(doc, doc.Accessors[primitive.Attributes["COLOR_0"]], nil); err != nil {
		return mesh, err
	}
	if mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil); err != nil {
		return mesh, err
	}
	return mesh, nil
}
