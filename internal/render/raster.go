package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/example/papers/internal/geom"
)

// Transform maps canvas coordinates to pixels: pixel = canvas*Scale + T.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Identity maps canvas units one to one onto pixels.
var Identity = Transform{Scale: 1}

// Apply maps p to pixel space.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Pt(p.X*t.Scale+t.TranslateX, p.Y*t.Scale+t.TranslateY)
}

// Fill paints the whole of dst with c.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

const miterLimit = 4 * 64

// Rasterize strokes every drawable into dst with round caps and joins.
// Consecutive drawables of one colour are scanned together and composited
// in a single pass.
func Rasterize(dst *image.RGBA, ds []Drawable, t Transform) {
	b := dst.Bounds()
	if b.Empty() || len(ds) == 0 {
		return
	}
	if t.Scale <= 0 {
		t.Scale = 1
	}
	// The coverage mask starts at the top left corner of dst.
	t.TranslateX -= float64(b.Min.X)
	t.TranslateY -= float64(b.Min.Y)

	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	r := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	for i := 0; i < len(ds); {
		r.Clear()
		j := i
		for ; j < len(ds) && ds[j].Color == ds[i].Color; j++ {
			addDrawable(r, ds[j], t)
		}
		r.SetColor(ds[i].Color)
		r.Draw()
		i = j
	}
}

func addDrawable(r *rasterx.Dasher, d Drawable, t Transform) {
	if d.Fill {
		addPath(&r.Filler, d.Path, t, true)
		return
	}
	w := d.Width * t.Scale
	if w < 1 {
		w = 1
	}
	var dashes []float64
	for _, v := range d.Dash {
		dashes = append(dashes, v*t.Scale)
	}
	r.SetStroke(fixed.Int26_6(w*64), miterLimit, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round, dashes, 0)
	addPath(r, d.Path, t, false)
}

// addPath feeds p to a in pixel space. A sub path that never leaves its
// start point is sent as a zero length line so it still gets caps.
func addPath(a rasterx.Adder, p geom.Path, t Transform, closed bool) {
	fp := func(q geom.Point) fixed.Point26_6 {
		q = t.Apply(q)
		return rasterx.ToFixedP(q.X, q.Y)
	}
	var (
		open, moved bool
		start       fixed.Point26_6
	)
	stop := func() {
		if !open {
			return
		}
		if !moved {
			a.Line(start)
		}
		a.Stop(closed)
		open, moved = false, false
	}
	begin := func(q fixed.Point26_6) {
		stop()
		start = q
		a.Start(q)
		open = true
	}
	for _, s := range p {
		switch s.Op {
		case geom.MoveTo:
			begin(fp(s.Pts[0]))
		case geom.LineTo:
			if !open {
				begin(fp(s.Pts[0]))
			}
			a.Line(fp(s.Pts[0]))
			moved = true
		case geom.CubeTo:
			if !open {
				begin(fp(s.Pts[0]))
			}
			a.CubeBezier(fp(s.Pts[0]), fp(s.Pts[1]), fp(s.Pts[2]))
			moved = true
		}
	}
	stop()
}
