// Package dem provides the digital elevation model grid, its neighbor
// sampling rules, and codecs for reading and writing grids on disk.
package dem

// DefaultNoData is the conventional sentinel for cells without a valid
// elevation. Cells with value <= the sentinel are treated as absent.
const DefaultNoData = -9999.0

// Grid is a rectangular array of elevation samples. Values is row-major:
// the cell at column x, row y lives at Values[y*Width+x].
type Grid struct {
	Width  int
	Height int
	NoData float64
	Values []float64
}

// NewGrid allocates a grid of the given dimensions with every cell set to
// the NoData sentinel.
func NewGrid(width, height int, noData float64) *Grid {
	vals := make([]float64, width*height)
	for i := range vals {
		vals[i] = noData
	}
	return &Grid{Width: width, Height: height, NoData: noData, Values: vals}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the stored value at (x, y). The coordinates must be in bounds.
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// Set stores a value at (x, y). The coordinates must be in bounds.
func (g *Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// Valid reports whether the cell at (x, y) holds a usable elevation:
// in bounds and strictly above the NoData sentinel.
func (g *Grid) Valid(x, y int) bool {
	return g.InBounds(x, y) && g.At(x, y) > g.NoData
}

// Sample classifies the cell at (x, y) for meshing. It returns (0, false)
// when the cell is out of bounds or at/below the NoData sentinel, otherwise
// the elevation and true. Values that fall strictly between the sentinel
// and minimum are raised to minimum.
func (g *Grid) Sample(x, y int, minimum float64) (float64, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	v := g.At(x, y)
	if v <= g.NoData {
		return 0, false
	}
	if v < minimum {
		v = minimum
	}
	return v, true
}

// ValidCount returns the number of cells above the NoData sentinel.
func (g *Grid) ValidCount() int {
	count := 0
	for _, v := range g.Values {
		if v > g.NoData {
			count++
		}
	}
	return count
}

// ElevationRange returns the minimum and maximum valid elevation.
// Both are 0 when the grid has no valid cells.
func (g *Grid) ElevationRange() (min, max float64) {
	first := true
	for _, v := range g.Values {
		if v <= g.NoData {
			continue
		}
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	vals := make([]float64, len(g.Values))
	copy(vals, g.Values)
	return &Grid{Width: g.Width, Height: g.Height, NoData: g.NoData, Values: vals}
}
