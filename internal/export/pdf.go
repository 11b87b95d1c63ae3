package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/render"
	"github.com/example/papers/internal/shape"
)

// writePDF draws a single page the size of the drawing, one point per
// canvas unit.
func writePDF(w io.Writer, shapes []shape.Shape, size geom.Point, o Options) error {
	th := o.theme()
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size.X, Ht: size.Y},
	})
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	bg := th.Background
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(0, 0, size.X, size.Y, "F")

	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for _, s := range shapes {
		d, ok := render.ShapeDrawable(s, th)
		if !ok {
			continue
		}
		p.SetDrawColor(int(d.Color.R), int(d.Color.G), int(d.Color.B))
		p.SetLineWidth(d.Width)
		for _, seg := range d.Path {
			switch seg.Op {
			case geom.MoveTo:
				p.MoveTo(seg.Pts[0].X, seg.Pts[0].Y)
			case geom.LineTo:
				p.LineTo(seg.Pts[0].X, seg.Pts[0].Y)
			case geom.CubeTo:
				p.CurveBezierCubicTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y, seg.Pts[2].X, seg.Pts[2].Y)
			}
		}
		p.DrawPath("D")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
