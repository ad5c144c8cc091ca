package mesh

import "github.com/go-gl/mathgl/mgl64"

// Simplify runs one greedy merge pass over flat regions and returns the
// number of vertices merged away. Call it repeatedly until it returns 0.
//
// A vertex is flat when every face touching it has the exact same normal.
// Normals are compared bit-for-bit, not within a tolerance: all normals
// come out of the same arithmetic in AddTriangle, so coplanar faces
// produce identical values, and exact comparison keeps merge behavior
// reproducible.
//
// Each pass merges a flat vertex into the first of its co-face neighbors
// that is flat with the same normal, then taints both neighborhoods so no
// cascading merges happen within the pass. Vertices are visited in table
// order, which makes the greedy tie-break deterministic.
func (m *Mesh) Simplify() int {
	n := len(m.verts)
	normals := make([][]mgl64.Vec3, n)
	neighbors := make([][]int, n)
	for _, f := range m.faces {
		v1, v2, v3 := f.V[0], f.V[1], f.V[2]
		normals[v1] = append(normals[v1], f.Normal)
		normals[v2] = append(normals[v2], f.Normal)
		normals[v3] = append(normals[v3], f.Normal)
		neighbors[v1] = append(neighbors[v1], v2, v3)
		neighbors[v2] = append(neighbors[v2], v1, v3)
		neighbors[v3] = append(neighbors[v3], v1, v2)
	}

	flat := make([]bool, n)
	flatNormal := make([]mgl64.Vec3, n)
	for i, ns := range normals {
		if len(ns) == 0 {
			continue
		}
		same := true
		for _, nrm := range ns[1:] {
			if nrm != ns[0] {
				same = false
				break
			}
		}
		if same {
			flat[i] = true
			flatNormal[i] = ns[0]
		}
	}

	tainted := make([]bool, n)
	mergedInto := make([]int, n)
	for i := range mergedInto {
		mergedInto[i] = -1
	}
	merged := 0
	for i := 0; i < n; i++ {
		if !flat[i] || tainted[i] {
			continue
		}
		allFlat := true
		for _, nb := range neighbors[i] {
			if !flat[nb] {
				allFlat = false
				break
			}
		}
		if !allFlat {
			continue
		}
		for _, nb := range neighbors[i] {
			if flat[nb] && flatNormal[nb] == flatNormal[i] {
				mergedInto[i] = nb
				merged++
				for _, t := range neighbors[i] {
					tainted[t] = true
				}
				for _, t := range neighbors[nb] {
					tainted[t] = true
				}
				break
			}
		}
	}
	if merged == 0 {
		return 0
	}

	// Rebuild the vertex table with survivors in their original order,
	// then route every face index through the remap. A merge target is
	// always a surviving vertex: merging taints both neighborhoods, so a
	// vertex that was merged into can never be merged itself.
	remap := make([]int, n)
	newVerts := make([]mgl64.Vec3, 0, n-merged)
	newIndex := make(map[mgl64.Vec3]int, n-merged)
	for i, v := range m.verts {
		if mergedInto[i] == -1 {
			remap[i] = len(newVerts)
			newIndex[v] = len(newVerts)
			newVerts = append(newVerts, v)
		}
	}
	for i := 0; i < n; i++ {
		if t := mergedInto[i]; t != -1 {
			remap[i] = remap[t]
		}
	}

	newFaces := make([]Face, 0, len(m.faces))
	for _, f := range m.faces {
		a, b, c := remap[f.V[0]], remap[f.V[1]], remap[f.V[2]]
		if a == b || b == c || c == a {
			// Collapsed to zero area by the merge.
			continue
		}
		newFaces = append(newFaces, Face{Normal: f.Normal, V: [3]int{a, b, c}})
	}

	m.verts = newVerts
	m.index = newIndex
	m.faces = newFaces
	return merged
}
