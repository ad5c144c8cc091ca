package dem

import "math"

// FixNoData returns a copy of the grid with every value at or below
// threshold replaced by the NoData sentinel. Useful for rasters that
// encode missing data as a large negative number other than the sentinel.
func FixNoData(g *Grid, threshold float64) *Grid {
	out := g.Clone()
	for i, v := range out.Values {
		if v <= threshold {
			out.Values[i] = out.NoData
		}
	}
	return out
}

// Smooth returns a copy of the grid with each valid cell replaced by the
// mean of the valid cells in the (2*radius+1)-sized box around it. NoData
// cells stay NoData and do not contribute to their neighbors' means.
func Smooth(g *Grid, radius int) *Grid {
	if radius < 1 {
		return g.Clone()
	}
	out := g.Clone()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Valid(x, y) {
				continue
			}
			sum := 0.0
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if g.Valid(x+dx, y+dy) {
						sum += g.At(x+dx, y+dy)
						count++
					}
				}
			}
			out.Set(x, y, sum/float64(count))
		}
	}
	return out
}

// Step returns a copy of the grid with every valid value quantized down
// to a multiple of size, producing contour-like terraces.
func Step(g *Grid, size float64) *Grid {
	out := g.Clone()
	if size <= 0 {
		return out
	}
	for i, v := range out.Values {
		if v > out.NoData {
			out.Values[i] = math.Floor(v/size) * size
		}
	}
	return out
}

// ZFit returns a copy of the grid with valid values linearly rescaled so
// the highest becomes max and the lowest becomes 0. A grid with no relief
// is returned unchanged.
func ZFit(g *Grid, max float64) *Grid {
	out := g.Clone()
	lo, hi := g.ElevationRange()
	if hi == lo {
		return out
	}
	scale := max / (hi - lo)
	for i, v := range out.Values {
		if v > out.NoData {
			out.Values[i] = (v - lo) * scale
		}
	}
	return out
}
