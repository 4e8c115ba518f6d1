// heightview is a CLI utility for inspecting the procedural terrain
// without starting the renderer.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/internal/terrain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render":
		cmdRender(args)
	case "info":
		cmdInfo(args)
	case "probe":
		cmdProbe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`heightview - procedural terrain inspection utility

Usage:
  heightview <command> [options]

Commands:
  render [options]          Render the height field to a grayscale PNG
  info [options]            Print height field statistics
  probe [options] <x> <z>   Sample height, normal and slope at a point

World options (all commands):
  -seed N           World seed
  -size N           World side length in meters
  -height-scale N   Vertical exaggeration
  -noise-scale N    Feature frequency
  -octaves N        Noise octave count

Examples:
  heightview render -seed 42 -out hills.png -px 1024
  heightview info -seed 42 -size 200
  heightview probe -seed 42 -- 10.5 -3.0`)
}

// worldFlags registers the terrain overrides on a flag set and returns
// a function that resolves them into a WorldConfig after parsing.
func worldFlags(fs *flag.FlagSet) func() config.WorldConfig {
	defaults := config.Default().World
	seed := fs.Int64("seed", defaults.Seed, "world seed")
	size := fs.Float64("size", float64(defaults.Size), "world side length in meters")
	heightScale := fs.Float64("height-scale", float64(defaults.HeightScale), "vertical exaggeration")
	noiseScale := fs.Float64("noise-scale", float64(defaults.NoiseScale), "feature frequency")
	octaves := fs.Int("octaves", defaults.Octaves, "noise octave count")

	return func() config.WorldConfig {
		cfg := defaults
		cfg.Seed = *seed
		cfg.Size = float32(*size)
		cfg.HeightScale = float32(*heightScale)
		cfg.NoiseScale = float32(*noiseScale)
		cfg.Octaves = *octaves
		return cfg
	}
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	world := worldFlags(fs)
	out := fs.String("out", "heightmap.png", "output PNG path")
	px := fs.Int("px", 512, "output image size in pixels")
	fs.Parse(args)

	cfg := world()
	if *px < 16 {
		fmt.Fprintln(os.Stderr, "Error: -px must be at least 16")
		os.Exit(1)
	}

	field := terrain.NewHeightField(cfg)
	img := renderHeightmap(field, cfg, *px)

	if err := debug.SavePNG(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d, seed %d, %gm world)\n", *out, *px, *px, cfg.Seed, cfg.Size)
}

// renderHeightmap samples the field at its native resolution and
// resamples to the requested pixel size. Heights map to the full
// 16-bit range, lowest point black.
func renderHeightmap(field *terrain.HeightField, cfg config.WorldConfig, px int) image.Image {
	samples := cfg.Resolution
	if samples < 2 {
		samples = 2
	}

	half := cfg.Size / 2
	at := func(ix, iz int) float32 {
		wx := -half + float32(ix)/float32(samples-1)*cfg.Size
		wz := -half + float32(iz)/float32(samples-1)*cfg.Size
		return field.HeightAt(wx, wz)
	}

	minH, maxH := at(0, 0), at(0, 0)
	for z := 0; z < samples; z++ {
		for x := 0; x < samples; x++ {
			h := at(x, z)
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
	}
	span := maxH - minH
	if span < 1e-6 {
		span = 1
	}

	src := image.NewGray16(image.Rect(0, 0, samples, samples))
	for z := 0; z < samples; z++ {
		for x := 0; x < samples; x++ {
			t := (at(x, z) - minH) / span
			src.SetGray16(x, z, color.Gray16{Y: uint16(t * 65535)})
		}
	}

	if px == samples {
		return src
	}
	dst := image.NewGray16(image.Rect(0, 0, px, px))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	world := worldFlags(fs)
	fs.Parse(args)

	cfg := world()
	field := terrain.NewHeightField(cfg)

	samples := cfg.Resolution
	half := cfg.Size / 2
	var minH, maxH, sumH, sumSlope, maxSlope float32
	minH = field.HeightAt(-half, -half)
	maxH = minH

	n := 0
	for z := 0; z < samples; z++ {
		for x := 0; x < samples; x++ {
			wx := -half + float32(x)/float32(samples-1)*cfg.Size
			wz := -half + float32(z)/float32(samples-1)*cfg.Size
			h := field.HeightAt(wx, wz)
			s := field.Slope(wx, wz)
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
			if s > maxSlope {
				maxSlope = s
			}
			sumH += h
			sumSlope += s
			n++
		}
	}

	fmt.Printf("Seed:         %d\n", cfg.Seed)
	fmt.Printf("Size:         %g m\n", cfg.Size)
	fmt.Printf("Resolution:   %d\n", cfg.Resolution)
	fmt.Printf("Height range: %.2f .. %.2f m (mean %.2f)\n", minH, maxH, sumH/float32(n))
	fmt.Printf("Slope:        mean %.3f, max %.3f\n", sumSlope/float32(n), maxSlope)
	fmt.Printf("Field max:    %.2f m\n", field.MaxHeight())
}

func cmdProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	world := worldFlags(fs)
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: heightview probe [options] <x> <z>")
		os.Exit(1)
	}
	x, errX := strconv.ParseFloat(rest[0], 32)
	z, errZ := strconv.ParseFloat(rest[1], 32)
	if errX != nil || errZ != nil {
		fmt.Fprintln(os.Stderr, "Error: coordinates must be numbers")
		os.Exit(1)
	}

	cfg := world()
	field := terrain.NewHeightField(cfg)

	wx, wz := float32(x), float32(z)
	half := cfg.Size / 2
	if wx < -half || wx > half || wz < -half || wz > half {
		fmt.Fprintf(os.Stderr, "Warning: point is outside the %gm world\n", cfg.Size)
	}

	n := field.Normal(wx, wz)
	fmt.Printf("Height: %.3f m\n", field.HeightAt(wx, wz))
	fmt.Printf("Normal: %.3f, %.3f, %.3f\n", n.X, n.Y, n.Z)
	fmt.Printf("Slope:  %.3f\n", field.Slope(wx, wz))
}
