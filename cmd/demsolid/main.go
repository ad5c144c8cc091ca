// demsolid is a CLI utility that turns digital elevation models into
// closed, printable solids in binary STL form.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/geoforge/demsolid/internal/config"
	"github.com/geoforge/demsolid/internal/logger"
	"github.com/geoforge/demsolid/internal/solid"
	"github.com/geoforge/demsolid/pkg/dem"
	"github.com/geoforge/demsolid/pkg/stl"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "solid":
		cmdSolid(cfg, args)
	case "info":
		cmdInfo(args)
	case "fixnodata":
		cmdFixNoData(args)
	case "smooth":
		cmdSmooth(args)
	case "step":
		cmdStep(args)
	case "zfit":
		cmdZFit(args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`demsolid - DEM to printable STL solid converter

Usage:
  demsolid [global flags] <command> [options]

Commands:
  solid <in> <out.stl>      Convert a grid into a watertight STL solid
  info <in>                 Show grid or STL file information
  fixnodata <in> <out>      Force values at or below a threshold to nodata
  smooth <in> <out>         Box-smooth valid cells
  step <in> <out>           Quantize elevations into terraces
  zfit <in> <out>           Rescale elevations to a target height
  config [path]             Write the active configuration to disk

Grid files are Esri ASCII grids; a .gz suffix is handled transparently.

Global flags:
  -config <path>  -debug  -quiet  -log-file <path>

Examples:
  demsolid solid -z-scale 2 -thickness 3 dem.asc.gz model.stl
  demsolid info dem.asc
  demsolid zfit -max 20 dem.asc flat.asc`)
}

func cmdSolid(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("solid", flag.ExitOnError)
	xyScale := fs.Float64("xy-scale", cfg.Solid.XYScale, "X/Y scale to use")
	zScale := fs.Float64("z-scale", cfg.Solid.ZScale, "Z scale to use")
	minimum := fs.Float64("minimum", cfg.Solid.Minimum, "Minimum depth (zero point)")
	thickness := fs.Float64("thickness", cfg.Solid.Thickness, "Base thickness")
	noSimplify := fs.Bool("nosimplify", !cfg.Solid.Simplify, "Skip mesh simplification")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: demsolid solid [options] <in> <out.stl>")
		os.Exit(1)
	}

	grid := loadGrid(fs.Arg(0))
	logger.Info("loaded grid",
		zap.String("path", fs.Arg(0)),
		zap.Int("cols", grid.Width),
		zap.Int("rows", grid.Height),
		zap.Int("valid_cells", grid.ValidCount()),
	)

	opts := solid.Options{
		XYScale:   *xyScale,
		ZScale:    *zScale,
		Minimum:   *minimum,
		Thickness: *thickness,
		Simplify:  !*noSimplify,
		Progress:  rowProgress(grid.Height),
	}

	res, err := solid.Convert(grid, opts, fs.Arg(1))
	if err != nil {
		logger.Fatal("conversion failed", zap.Error(err))
	}

	logger.Info("wrote solid",
		zap.String("path", fs.Arg(1)),
		zap.Int("faces", res.Faces),
		zap.Int("vertices", res.Vertices),
		zap.Int("merged_vertices", res.MergedVertices),
		zap.Int("simplify_passes", res.Passes),
	)
}

// rowProgress reports mesh build progress at every tenth of the grid.
func rowProgress(rows int) func(row, total int) {
	lastDecile := -1
	return func(row, total int) {
		if total == 0 {
			return
		}
		decile := row * 10 / total
		if decile != lastDecile {
			lastDecile = decile
			logger.Debug("calculating mesh", zap.Int("row", row), zap.Int("rows", total))
		}
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: demsolid info <in>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if strings.HasSuffix(path, ".stl") {
		model, err := stl.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("STL file: %s\n", path)
		fmt.Printf("Facets:   %d\n", len(model.Triangles))
		fmt.Printf("Size:     %d bytes\n", 84+50*len(model.Triangles))
		return
	}

	grid := loadGrid(path)
	min, max := grid.ElevationRange()
	fmt.Printf("Grid:        %s\n", path)
	fmt.Printf("Columns:     %d\n", grid.Width)
	fmt.Printf("Rows:        %d\n", grid.Height)
	fmt.Printf("NoData:      %g\n", grid.NoData)
	fmt.Printf("Valid cells: %d of %d\n", grid.ValidCount(), grid.Width*grid.Height)
	fmt.Printf("Elevation:   %g to %g\n", min, max)
}

func cmdFixNoData(args []string) {
	fs := flag.NewFlagSet("fixnodata", flag.ExitOnError)
	threshold := fs.Float64("threshold", dem.DefaultNoData, "Values at or below become nodata")
	fs.Parse(args)

	runTransform(fs, "fixnodata", func(g *dem.Grid) *dem.Grid {
		return dem.FixNoData(g, *threshold)
	})
}

func cmdSmooth(args []string) {
	fs := flag.NewFlagSet("smooth", flag.ExitOnError)
	radius := fs.Int("radius", 1, "Box smoothing radius in cells")
	fs.Parse(args)

	runTransform(fs, "smooth", func(g *dem.Grid) *dem.Grid {
		return dem.Smooth(g, *radius)
	})
}

func cmdStep(args []string) {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	size := fs.Float64("size", 1, "Terrace height")
	fs.Parse(args)

	runTransform(fs, "step", func(g *dem.Grid) *dem.Grid {
		return dem.Step(g, *size)
	})
}

func cmdZFit(args []string) {
	fs := flag.NewFlagSet("zfit", flag.ExitOnError)
	max := fs.Float64("max", 10, "Target maximum elevation")
	fs.Parse(args)

	runTransform(fs, "zfit", func(g *dem.Grid) *dem.Grid {
		return dem.ZFit(g, *max)
	})
}

// runTransform handles the shared in/out plumbing of the grid commands.
func runTransform(fs *flag.FlagSet, name string, apply func(*dem.Grid) *dem.Grid) {
	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Usage: demsolid %s [options] <in> <out>\n", name)
		os.Exit(1)
	}

	grid := loadGrid(fs.Arg(0))
	out := apply(grid)
	if err := dem.WriteFile(fs.Arg(1), out); err != nil {
		logger.Fatal("writing grid failed", zap.Error(err))
	}
	logger.Info("wrote grid",
		zap.String("command", name),
		zap.String("path", fs.Arg(1)),
		zap.Int("valid_cells", out.ValidCount()),
	)
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	user := fs.Bool("user", false, "Write to the user config directory")
	fs.Parse(args)

	if *user {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	path := "demsolid.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := cfg.SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func loadGrid(path string) *dem.Grid {
	grid, err := dem.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return grid
}
