// Package mesh provides an indexed triangle mesh with deduplicated
// vertices, the primitives used to assemble a closed solid from a height
// grid, and a greedy coplanar-region simplifier.
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle: an outward unit normal plus three indices into the
// mesh vertex table, wound clockwise when seen from the outside.
type Face struct {
	Normal mgl64.Vec3
	V      [3]int
}

// Mesh holds a deduplicated vertex table and an ordered face list.
// Vertices are deduplicated by exact coordinate equality and indexed in
// first-seen order.
type Mesh struct {
	verts []mgl64.Vec3
	index map[mgl64.Vec3]int
	faces []Face
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{index: make(map[mgl64.Vec3]int)}
}

// VertexIndex returns the index of the given point, adding it to the
// table if it has not been seen before.
func (m *Mesh) VertexIndex(p mgl64.Vec3) int {
	if i, ok := m.index[p]; ok {
		return i
	}
	i := len(m.verts)
	m.verts = append(m.verts, p)
	m.index[p] = i
	return i
}

// Vertex returns the vertex at index i.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return m.verts[i]
}

// VertexCount returns the number of distinct vertices.
func (m *Mesh) VertexCount() int {
	return len(m.verts)
}

// Faces returns the face list. The slice is owned by the mesh.
func (m *Mesh) Faces() []Face {
	return m.faces
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// AddTriangle appends a triangle. The normal is the normalized cross
// product of (p2-p1) and (p3-p1); pass the points in clockwise order as
// seen from the outside of the solid.
func (m *Mesh) AddTriangle(p1, p2, p3 mgl64.Vec3) {
	i1 := m.VertexIndex(p1)
	i2 := m.VertexIndex(p2)
	i3 := m.VertexIndex(p3)
	normal := p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	m.faces = append(m.faces, Face{Normal: normal, V: [3]int{i1, i2, i3}})
}

// AddQuad appends a quad as two triangles. Pass the corners in clockwise
// order.
func (m *Mesh) AddQuad(p1, p2, p3, p4 mgl64.Vec3) {
	m.AddTriangle(p1, p2, p4)
	m.AddTriangle(p2, p3, p4)
}

// AddSurface appends a top triangle together with its mirrored base
// triangle at the bottom elevation. The mirror is wound in reverse so its
// normal points down, out of the solid.
func (m *Mesh) AddSurface(p1, p2, p3 mgl64.Vec3, bottom float64) {
	m.AddTriangle(p1, p2, p3)
	m.AddTriangle(
		mgl64.Vec3{p1.X(), p1.Y(), bottom},
		mgl64.Vec3{p3.X(), p3.Y(), bottom},
		mgl64.Vec3{p2.X(), p2.Y(), bottom},
	)
}

// AddEdge appends a vertical wall quad from the edge p1-p2 down to the
// bottom elevation. Pass p1 and p2 left-to-right as seen from outside the
// solid.
func (m *Mesh) AddEdge(p1, p2 mgl64.Vec3, bottom float64) {
	m.AddQuad(
		p1,
		p2,
		mgl64.Vec3{p2.X(), p2.Y(), bottom},
		mgl64.Vec3{p1.X(), p1.Y(), bottom},
	)
}
