package voxel

import (
	"strings"

	"github.com/pkg/errors"
)

// Mesher turns a chunk into renderable geometry. Implementations take the chunk's
// read lock and must not be handed a chunk whose lock the caller already holds.
type Mesher interface {
	Mesh(c *Chunk, neighbors *Neighbors) *Mesh
	Name() string
}

const (
	MeshNaive  = "naive"
	MeshCulled = "culled"
	MeshGreedy = "greedy"
)

func NewMesher(algorithm string) (Mesher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case MeshNaive:
		return NaiveMesher{}, nil
	case MeshCulled:
		return CulledMesher{}, nil
	case MeshGreedy, "":
		return GreedyMesher{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownMesher, "%q", algorithm)
}

// cubeFaceOrder is top, bottom, left, right, front, back.
var cubeFaceOrder = [6]FaceType{YP, YN, XN, XP, ZP, ZN}

// NaiveMesher emits a full cube (24 vertices, 36 indices) for every solid voxel.
type NaiveMesher struct{}

func (NaiveMesher) Name() string { return MeshNaive }

func (NaiveMesher) Mesh(c *Chunk, _ *Neighbors) *Mesh {
	mesh := NewMesh(c.Origin())
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, b := range c.data {
		if !b.IsSolid() {
			continue
		}
		pos := DecodeID(int32(i))
		for _, face := range cubeFaceOrder {
			mesh.AppendQuad(quadCorners(face, pos, 1, 1), face, b)
		}
	}
	return mesh
}

// CulledMesher emits one quad per visible voxel face.
type CulledMesher struct{}

func (CulledMesher) Name() string { return MeshCulled }

func (CulledMesher) Mesh(c *Chunk, neighbors *Neighbors) *Mesh {
	mesh := NewMesh(c.Origin())
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, b := range c.data {
		if !b.IsSolid() {
			continue
		}
		pos := DecodeID(int32(i))
		for _, face := range cubeFaceOrder {
			n := pos.Add(face.Offset())
			if faceVisible(b, c.blockAt(neighbors, n.X, n.Y, n.Z)) {
				mesh.AppendQuad(quadCorners(face, pos, 1, 1), face, b)
			}
		}
	}
	return mesh
}
