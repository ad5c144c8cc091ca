// Package solid turns an elevation grid into a closed, watertight
// triangle mesh and drives the grid -> mesh -> simplify -> STL pipeline.
package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/geoforge/demsolid/pkg/dem"
	"github.com/geoforge/demsolid/pkg/mesh"
	"github.com/geoforge/demsolid/pkg/stl"
)

// Options control a conversion.
type Options struct {
	// XYScale multiplies the grid x/y coordinates of every vertex.
	XYScale float64
	// ZScale divides Thickness when computing the base elevation. It does
	// not scale the elevations themselves; use dem.ZFit for that.
	ZScale float64
	// Minimum is the floor applied to valid elevations.
	Minimum float64
	// Thickness is the solid base thickness before z-scaling.
	Thickness float64
	// Simplify runs merge passes until a fixpoint after building.
	Simplify bool
	// Progress, when set, is called once per grid row during the build.
	Progress func(row, rows int)
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		XYScale:   1,
		ZScale:    1,
		Minimum:   0,
		Thickness: 1,
		Simplify:  true,
	}
}

// Bottom returns the base elevation of the solid.
func (o Options) Bottom() float64 {
	return 0 - o.Thickness/o.ZScale
}

// Result summarizes a finished conversion.
type Result struct {
	Vertices       int
	Faces          int
	MergedVertices int
	Passes         int
}

// Build walks every grid cell once and assembles the solid. Per valid
// center cell it considers up to four surface triangles, each emitted with
// its mirrored base triangle, plus the vertical walls needed wherever the
// surface borders an absent cell, so the union of all geometry closes
// with no gaps or overlaps.
//
// An isolated valid cell with all eight neighbors absent satisfies none
// of the triangle conditions and contributes nothing: single-cell
// elevations vanish from the output.
func Build(g *dem.Grid, opts Options) *mesh.Mesh {
	m := mesh.New()
	bottom := opts.Bottom()

	point := func(x, y int, v float64) mgl64.Vec3 {
		return mgl64.Vec3{float64(x) * opts.XYScale, float64(y) * opts.XYScale, v}
	}

	for y := 0; y < g.Height; y++ {
		if opts.Progress != nil {
			opts.Progress(y, g.Height)
		}
		for x := 0; x < g.Width; x++ {
			cv, ok := g.Sample(x, y, opts.Minimum)
			if !ok {
				continue
			}

			// The eight compass neighbors around the center:
			//   tl  t  tr
			//    l  c   r
			//   bl  b  br
			tv, tok := g.Sample(x, y-1, opts.Minimum)
			_, trok := g.Sample(x+1, y-1, opts.Minimum)
			_, tlok := g.Sample(x-1, y-1, opts.Minimum)
			lv, lok := g.Sample(x-1, y, opts.Minimum)
			rv, rok := g.Sample(x+1, y, opts.Minimum)
			_, blok := g.Sample(x-1, y+1, opts.Minimum)
			bv, bok := g.Sample(x, y+1, opts.Minimum)
			_, brok := g.Sample(x+1, y+1, opts.Minimum)

			c := point(x, y, cv)
			t := point(x, y-1, tv)
			l := point(x-1, y, lv)
			r := point(x+1, y, rv)
			b := point(x, y+1, bv)

			// Center-right-bottom triangle.
			if rok && bok {
				m.AddSurface(c, r, b, bottom)
				// Diagonal wall when the br corner is missing.
				if !brok {
					m.AddEdge(b, r, bottom)
				}
				if !tok && !trok {
					m.AddEdge(r, c, bottom)
				}
				if !lok && !blok {
					m.AddEdge(c, b, bottom)
				}
			}
			// Top-center-left triangle.
			if tok && lok {
				m.AddSurface(t, c, l, bottom)
				if !tlok {
					m.AddEdge(t, l, bottom)
				}
				if !rok && !trok {
					m.AddEdge(c, t, bottom)
				}
				if !bok && !blok {
					m.AddEdge(l, c, bottom)
				}
			}
			// Top-right-center triangle plugs the diagonal gap when t and
			// r exist but tr does not, so its wall is unconditional.
			if tok && rok && !trok {
				m.AddSurface(t, r, c, bottom)
				m.AddEdge(r, t, bottom)
				if !lok && !tlok {
					m.AddEdge(t, c, bottom)
				}
				if !bok && !brok {
					m.AddEdge(c, r, bottom)
				}
			}
			// Left-center-bottom triangle, the mirrored diagonal case.
			if lok && bok && !blok {
				m.AddSurface(l, c, b, bottom)
				m.AddEdge(l, b, bottom)
				if !rok && !brok {
					m.AddEdge(b, c, bottom)
				}
				if !tok && !trok {
					m.AddEdge(c, l, bottom)
				}
			}
		}
	}
	return m
}

// Convert runs the full pipeline: build the mesh, simplify to a fixpoint
// when enabled, and write the binary STL to outPath. On a write failure
// the partial output file is removed.
func Convert(g *dem.Grid, opts Options, outPath string) (Result, error) {
	m := Build(g, opts)

	var res Result
	if opts.Simplify {
		for {
			merged := m.Simplify()
			if merged == 0 {
				break
			}
			res.MergedVertices += merged
			res.Passes++
		}
	}
	res.Vertices = m.VertexCount()
	res.Faces = m.FaceCount()

	if err := stl.WriteFile(outPath, m); err != nil {
		return res, err
	}
	return res, nil
}
