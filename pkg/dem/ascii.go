package dem

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ASCII grid format errors.
var (
	ErrBadGridHeader = errors.New("invalid ASCII grid header")
	ErrTruncatedGrid = errors.New("truncated ASCII grid data")
	ErrBadGridNumber = errors.New("malformed number in ASCII grid")
	ErrEmptyGrid     = errors.New("ASCII grid has zero extent")
)

// header keys understood by the parser. xllcorner/yllcorner/cellsize are
// accepted and ignored; meshing works in cell units.
const (
	keyNCols  = "ncols"
	keyNRows  = "nrows"
	keyNoData = "nodata_value"
)

// Parse parses an Esri ASCII grid. The header is a sequence of
// "key value" lines followed by nrows lines of ncols whitespace-separated
// samples, top row first. nodata_value defaults to -9999 when absent.
func Parse(data []byte) (*Grid, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	cols, rows := -1, -1
	noData := DefaultNoData

	// Header: lines whose first field is not numeric.
	var firstDataLine string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
			firstDataLine = line
			break
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrBadGridHeader, line)
		}
		key := strings.ToLower(fields[0])
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadGridHeader, line)
		}
		switch key {
		case keyNCols:
			cols = int(val)
		case keyNRows:
			rows = int(val)
		case keyNoData:
			noData = val
		case "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize":
			// Georeferencing, not needed for meshing.
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrBadGridHeader, key)
		}
	}
	if cols <= 0 || rows <= 0 {
		if cols == -1 || rows == -1 {
			return nil, fmt.Errorf("%w: missing ncols/nrows", ErrBadGridHeader)
		}
		return nil, ErrEmptyGrid
	}

	g := NewGrid(cols, rows, noData)
	i := 0
	consume := func(line string) error {
		for _, tok := range strings.Fields(line) {
			if i >= cols*rows {
				return fmt.Errorf("%w: more than %d samples", ErrBadGridHeader, cols*rows)
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrBadGridNumber, tok)
			}
			g.Values[i] = v
			i++
		}
		return nil
	}
	if firstDataLine != "" {
		if err := consume(firstDataLine); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := consume(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	if i != cols*rows {
		return nil, fmt.Errorf("%w: got %d of %d samples", ErrTruncatedGrid, i, cols*rows)
	}
	return g, nil
}

// ParseFile parses an ASCII grid from disk. Files ending in .gz are
// decompressed transparently.
func ParseFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip grid %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading grid file: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return g, nil
}

// Write serializes the grid as an Esri ASCII grid.
func Write(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Width)
	fmt.Fprintf(bw, "nrows %d\n", g.Height)
	fmt.Fprintf(bw, "nodata_value %s\n", formatSample(g.NoData))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(formatSample(g.At(x, y))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the grid to disk, gzip-compressed when the path ends
// in .gz.
func WriteFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating grid file: %w", err)
	}
	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}
	if err := Write(w, g); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatSample(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
