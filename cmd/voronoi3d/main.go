// Command voronoi3d builds the Delaunay tetrahedralization of a point
// cloud read from a CSV file (one "x,y,z" site per line) and writes the
// requested export formats alongside it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chanzylazer/voronoi3d/export"
	"github.com/chanzylazer/voronoi3d/mesh"
)

func main() {
	in := flag.String("in", "", "input CSV file of x,y,z sites (required)")
	svgOut := flag.String("svg", "", "write an SVG cross-section slice to this path")
	pngOut := flag.String("png", "", "write a PNG cross-section slice to this path")
	dxfOut := flag.String("dxf", "", "write a DXF wireframe to this path")
	mf3Out := flag.String("3mf", "", "write a 3MF solid mesh to this path")
	slice := flag.Float64("slice-z", 0, "Z height for the SVG/PNG cross-section")
	accel := flag.Bool("accelerate", true, "seed point location from the nearest inserted site")
	flag.Parse()

	if *in == "" {
		log.Fatal("voronoi3d: -in is required")
	}

	pts, err := readPoints(*in)
	if err != nil {
		log.Fatalf("voronoi3d: %v", err)
	}

	b := mesh.New().UseAccelerator(*accel)
	for i, p := range pts {
		if _, err := b.Insert(p[0], p[1], p[2]); err != nil {
			log.Fatalf("voronoi3d: inserting site %d: %v", i, err)
		}
	}
	log.Printf("voronoi3d: built mesh of %d sites", b.SizeVertex())
	sum := b.Summarize()
	log.Printf("voronoi3d: mean coordination %.3f (var %.3f), mean atomic volume %.6g, %d incomplete cells",
		sum.MeanCoordination, sum.VarCoordination, sum.MeanAtomicVolume, sum.Incomplete)

	if *svgOut != "" {
		if err := writeFile(*svgOut, func(f *os.File) error {
			export.WriteSVGSlice(f, b, *slice, 800, 800)
			return nil
		}); err != nil {
			log.Fatalf("voronoi3d: %v", err)
		}
	}
	if *pngOut != "" {
		img, err := export.RasterizeSlice(b, *slice, 800, 800, nil)
		if err != nil {
			log.Fatalf("voronoi3d: %v", err)
		}
		if err := export.SavePNG(*pngOut, img); err != nil {
			log.Fatalf("voronoi3d: %v", err)
		}
	}
	if *dxfOut != "" {
		if err := export.WriteDXF(*dxfOut, b); err != nil {
			log.Fatalf("voronoi3d: %v", err)
		}
	}
	if *mf3Out != "" {
		if err := export.WriteMesh3MF(*mf3Out, b); err != nil {
			log.Fatalf("voronoi3d: %v", err)
		}
	}
}

func readPoints(path string) ([][3]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pts [][3]float64
	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected x,y,z, got %q", path, lineNo, line)
		}
		var p [3]float64
		for i, fd := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(fd), 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			p[i] = v
		}
		pts = append(pts, p)
	}
	return pts, sc.Err()
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
