package export

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	return draw2dimg.SaveToPngFile(path, img)
}

// RasterizeSlice renders the same cross-section as WriteSVGSlice, but
// to a PNG raster via draw2d, with each site labeled by its coordination
// number using a freetype-loaded face (or the basic bitmap face as a
// fallback when no TrueType data is supplied).
func RasterizeSlice(src MeshSource, zSlice float64, width, height int, ttf []byte) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(color.White)
	gc.Clear()

	// The raster path is the one export consumers render at scale
	// (report generation over large configurations), so it extracts
	// slice segments via the worker-pool fan-out in parallel.go rather
	// than the plain serial walk WriteSVGSlice uses.
	segs := parallelSliceSegments(src, zSlice)
	minX, minY, maxX, maxY := bounds(segs)
	sx, sy, ox, oy := fitTransform(minX, minY, maxX, maxY, width, height)

	gc.SetStrokeColor(color.Black)
	gc.SetLineWidth(1)
	for _, s := range segs {
		gc.BeginPath()
		gc.MoveTo(sx*s.x1+ox, sy*s.y1+oy)
		gc.LineTo(sx*s.x2+ox, sy*s.y2+oy)
		gc.Stroke()
	}

	face, err := labelFace(ttf)
	if err != nil {
		return nil, err
	}

	for _, v := range src.AllVertex() {
		if abs(v.Z()-zSlice) > 1e-6 {
			continue
		}
		x, y := sx*v.X()+ox, sy*v.Y()+oy
		gc.SetFillColor(color.RGBA{R: 200, A: 255})
		gc.BeginPath()
		gc.ArcTo(x, y, 2, 2, 0, 6.283185307)
		gc.Fill()
		drawLabel(img, face, fmt.Sprintf("%d", v.Coordination()), int(x)+3, int(y)-3)
	}
	return img, nil
}

// labelFace returns a freetype face built from ttf if provided and
// valid, else falls back to the basic bitmap face from x/image/font so
// RasterizeSlice never needs an embedded font to produce labeled output.
func labelFace(ttf []byte) (font.Face, error) {
	if len(ttf) == 0 {
		return basicfont.Face7x13, nil
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("export: parse label font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: 10}), nil
}

func drawLabel(img *image.RGBA, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
