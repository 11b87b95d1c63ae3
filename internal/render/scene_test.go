package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

func TestSceneResolvesThemeColors(t *testing.T) {
	shapes := []shape.Shape{
		{Type: shape.Freehand, Color: theme.DefaultStrokeLight, Linewidth: 2, Points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}},
		{Type: shape.Freehand, Color: "#fd5865", Linewidth: 2, Points: []geom.Point{{X: 0, Y: 0}}},
		{Type: shape.Erase, Linewidth: 40, Points: []geom.Point{{X: 1, Y: 1}}},
	}
	dark := theme.Dark()
	ds := Scene(Input{Shapes: shapes, Theme: dark, Scale: 1})
	if len(ds) != 3 {
		t.Fatalf("expected 3 drawables, got %d", len(ds))
	}
	if ds[0].Color != dark.DefaultStroke {
		t.Errorf("default stroke not resolved: %+v", ds[0].Color)
	}
	if ds[1].Color != (color.RGBA{0xfd, 0x58, 0x65, 0xff}) {
		t.Errorf("palette colour changed: %+v", ds[1].Color)
	}
	if ds[2].Color != dark.Background {
		t.Errorf("erase stroke should use the background: %+v", ds[2].Color)
	}
}

func TestSceneSkipsUnknownShapes(t *testing.T) {
	shapes := []shape.Shape{
		{Type: "blob", Points: []geom.Point{{X: 0, Y: 0}}},
		{Type: shape.Rectangle, Points: geom.CreateRectangularShapePoints(0, 0, 4, 4, false)},
	}
	ds := Scene(Input{Shapes: shapes})
	if len(ds) != 1 {
		t.Fatalf("expected the bad shape to be skipped, got %d drawables", len(ds))
	}
}

func TestSceneCurrentShape(t *testing.T) {
	cur := shape.Shape{Type: shape.Ellipse, Linewidth: 2, X1: 0, Y1: 0, X2: 10, Y2: 10}
	ds := Scene(Input{Current: &cur, Scale: 1})
	if len(ds) != 1 {
		t.Fatalf("expected in progress ellipse to render, got %d", len(ds))
	}
	r := ds[0].Path.Bounds()
	if r.Width() < 9.9 || r.Height() < 9.9 {
		t.Fatalf("ellipse bounds %+v", r)
	}
}

func TestSceneCurrentUsesCoarserTolerance(t *testing.T) {
	var pts []geom.Point
	for i := 0; i < 200; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 0.5
		}
		pts = append(pts, geom.Pt(float64(i), y))
	}
	s := shape.Shape{Type: shape.Freehand, Linewidth: 2, Points: pts}
	committed := Scene(Input{Shapes: []shape.Shape{s}})
	current := Scene(Input{Current: &s})
	if len(current[0].Path) >= len(committed[0].Path) {
		t.Fatalf("in progress stroke should be simplified more: %d vs %d", len(current[0].Path), len(committed[0].Path))
	}
}

func TestSceneMarqueeAndEraser(t *testing.T) {
	m := shape.Shape{Type: shape.Select, Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	cursor := geom.Pt(50, 50)
	ds := Scene(Input{Marquee: &m, Eraser: &cursor, EraserSize: 20, Scale: 2})
	if len(ds) != 2 {
		t.Fatalf("expected marquee and cursor, got %d", len(ds))
	}
	if ds[0].Dash == nil || ds[0].Width != SelectionLinewidth/2 {
		t.Errorf("marquee should be dashed and scale independent: %+v", ds[0])
	}
	if !ds[1].Fill || ds[1].Color != theme.Default().EraserCursor {
		t.Errorf("eraser cursor should be a filled disc: %+v", ds[1])
	}
	r := ds[1].Path.Bounds()
	if r.Width() < 39.9 || r.Width() > 40.1 {
		t.Errorf("eraser circle diameter %v", r.Width())
	}
}

func TestRasterizeLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	Fill(img, color.White)
	red := color.RGBA{R: 255, A: 255}
	d := Drawable{Path: geom.SmoothPath([]geom.Point{{X: 5, Y: 20}, {X: 35, Y: 20}}, false, 0), Color: red, Width: 4}
	Rasterize(img, []Drawable{d}, Identity)

	if got := img.RGBAAt(20, 20); got != red {
		t.Fatalf("line centre not painted: %+v", got)
	}
	if got := img.RGBAAt(20, 30); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("pixel away from the line painted: %+v", got)
	}
}

func TestRasterizeBackAndForth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	blue := color.RGBA{B: 255, A: 255}
	pts := []geom.Point{{X: 5, Y: 10}, {X: 35, Y: 10}, {X: 5, Y: 10}}
	Rasterize(img, []Drawable{{Path: geom.SmoothPath(pts, false, 0), Color: blue, Width: 4}}, Identity)
	if got := img.RGBAAt(20, 10); got != blue {
		t.Fatalf("overlapping strokes cancelled out: %+v", got)
	}
}

func TestRasterizeTransformAndDot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	black := color.RGBA{A: 255}
	d := Drawable{Path: geom.SmoothPath([]geom.Point{{X: 5, Y: 5}}, true, 0), Color: black, Width: 3}
	Rasterize(img, []Drawable{d}, Transform{Scale: 2, TranslateX: 10, TranslateY: 0})
	if got := img.RGBAAt(20, 10); got.A == 0 {
		t.Fatal("dot not painted at transformed position")
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Fatal("dot painted at untransformed position")
	}
}

func TestRasterizeDashed(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	black := color.RGBA{A: 255}
	d := Drawable{
		Path:  geom.SmoothPath([]geom.Point{{X: 5, Y: 20}, {X: 55, Y: 20}}, false, 0),
		Color: black,
		Width: 2,
		Dash:  []float64{10, 10},
	}
	Rasterize(img, []Drawable{d}, Identity)
	for _, x := range []int{10, 30, 50} {
		if got := img.RGBAAt(x, 20); got.A == 0 {
			t.Errorf("dash at x=%d not painted", x)
		}
	}
	for _, x := range []int{20, 40} {
		if got := img.RGBAAt(x, 20); got.A != 0 {
			t.Errorf("gap at x=%d painted: %+v", x, got)
		}
	}
}

func TestRasterizeLargeCurveStaysOnCurve(t *testing.T) {
	// A long Catmull-Rom segment at high zoom. The point at t=33/64 lies
	// between the vertices of a coarse flattening.
	p0, c1, c2, p3 := geom.Pt(0, 0), geom.Pt(0, 3000), geom.Pt(3000, 3000), geom.Pt(3000, 0)
	at := func(u float64) geom.Point {
		v := 1 - u
		return p0.Mul(v * v * v).Add(c1.Mul(3 * v * v * u)).Add(c2.Mul(3 * v * u * u)).Add(p3.Mul(u * u * u))
	}
	on := at(33.0 / 64)
	path := geom.Path{
		{Op: geom.MoveTo, Pts: []geom.Point{p0}},
		{Op: geom.CubeTo, Pts: []geom.Point{c1, c2, p3}},
	}
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	black := color.RGBA{A: 255}
	// Centre the sampled point on pixel (20, 20).
	tr := Transform{Scale: 1, TranslateX: 20.5 - on.X, TranslateY: 20.5 - on.Y}
	Rasterize(img, []Drawable{{Path: path, Color: black, Width: 2}}, tr)
	if got := img.RGBAAt(20, 20); got.A < 200 {
		t.Fatalf("curve drawn off its true position: %+v", got)
	}
}

func TestRasterizeFilledDisc(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	grey := color.RGBA{0x88, 0x88, 0x88, 0xff}
	d := Drawable{Path: CirclePath(geom.Pt(20, 20), 10), Color: grey, Fill: true}
	Rasterize(img, []Drawable{d}, Identity)
	if got := img.RGBAAt(20, 20); got != grey {
		t.Fatalf("disc centre not filled: %+v", got)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("outside of disc painted: %+v", got)
	}
}

func TestRasterizeSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	sub := img.SubImage(image.Rect(20, 20, 40, 40)).(*image.RGBA)
	red := color.RGBA{R: 255, A: 255}
	d := Drawable{Path: geom.SmoothPath([]geom.Point{{X: 25, Y: 30}, {X: 35, Y: 30}}, false, 0), Color: red, Width: 4}
	Rasterize(sub, []Drawable{d}, Identity)
	if got := img.RGBAAt(30, 30); got != red {
		t.Fatalf("stroke not at its absolute position: %+v", got)
	}
	if got := img.RGBAAt(10, 10); got.A != 0 {
		t.Fatalf("painted outside the sub image: %+v", got)
	}
}

func TestRasterizeKeepsPaintOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	black := color.RGBA{A: 255}
	white := color.RGBA{255, 255, 255, 255}
	line := geom.SmoothPath([]geom.Point{{X: 5, Y: 20}, {X: 35, Y: 20}}, false, 0)
	ds := []Drawable{
		{Path: line, Color: black, Width: 4},
		{Path: line, Color: white, Width: 8},
		{Path: geom.SmoothPath([]geom.Point{{X: 20, Y: 5}, {X: 20, Y: 35}}, false, 0), Color: black, Width: 4},
	}
	Rasterize(img, ds, Identity)
	if got := img.RGBAAt(10, 20); got != white {
		t.Errorf("erase stroke did not cover earlier stroke: %+v", got)
	}
	if got := img.RGBAAt(20, 20); got != black {
		t.Errorf("later stroke not drawn over erase stroke: %+v", got)
	}
}
