// Package stl reads and writes binary STL files.
//
// The layout is fixed: an 80-byte header, a little-endian uint32 facet
// count, then one 50-byte record per facet holding twelve little-endian
// float32 values (normal, then three vertices) and a zero uint16
// attribute. A well-formed file is exactly 84 + 50*count bytes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/geoforge/demsolid/pkg/mesh"
)

// STL format errors.
var (
	ErrTruncatedSTL = errors.New("truncated STL data")
	ErrSTLSize      = errors.New("STL size does not match facet count")
)

// headerTag is written at the start of the 80-byte header; the remainder
// is zero. Readers ignore the header entirely.
const headerTag = "demsolid binary STL"

// headerLen is the fixed size of the file header, recordLen of one facet.
const (
	headerLen = 80
	recordLen = 50
)

// facet is the on-disk facet record. Field order matches the wire layout
// so binary.Write and binary.Read map it directly.
type facet struct {
	Normal [3]float32
	V1     [3]float32
	V2     [3]float32
	V3     [3]float32
	Attrib uint16
}

// Triangle is one facet of a parsed model.
type Triangle struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
}

// Model is a parsed STL file: a plain triangle soup.
type Model struct {
	Triangles []Triangle
}

// Write serializes the mesh to w in binary STL form.
func Write(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [headerLen]byte
	copy(header[:], headerTag)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.FaceCount())); err != nil {
		return err
	}
	for _, f := range m.Faces() {
		rec := facet{
			Normal: point32(f.Normal),
			V1:     point32(m.Vertex(f.V[0])),
			V2:     point32(m.Vertex(f.V[1])),
			V3:     point32(m.Vertex(f.V[2])),
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the mesh to a binary STL file. On a write failure the
// partial file is removed; no truncated output is left behind.
func WriteFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating STL file: %w", err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Parse parses a binary STL file from raw bytes. The byte length must
// match the facet count exactly.
func Parse(data []byte) (*Model, error) {
	if len(data) < headerLen+4 {
		return nil, ErrTruncatedSTL
	}
	r := bytes.NewReader(data[headerLen:])

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading facet count", ErrTruncatedSTL)
	}
	want := headerLen + 4 + int(count)*recordLen
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d facets need %d bytes, have %d",
			ErrSTLSize, count, want, len(data))
	}

	model := &Model{Triangles: make([]Triangle, count)}
	for i := range model.Triangles {
		var rec facet
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: reading facet %d", ErrTruncatedSTL, i)
		}
		model.Triangles[i] = Triangle{
			Normal: rec.Normal,
			V1:     rec.V1,
			V2:     rec.V2,
			V3:     rec.V3,
		}
	}
	return model, nil
}

// ParseFile parses a binary STL file from disk.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return model, nil
}

func point32(p mgl64.Vec3) [3]float32 {
	return [3]float32{float32(p.X()), float32(p.Y()), float32(p.Z())}
}
