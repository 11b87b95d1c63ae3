package export

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/render"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

// writeSVG always uses the light default stroke, so the file reads well on
// the white backgrounds documents usually have. Erase strokes have nothing
// to cover in a background-less SVG and are left out.
func writeSVG(w io.Writer, shapes []shape.Shape, size geom.Point) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg version="1.0" xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`,
		num(size.X), num(size.Y))
	bw.WriteString("<g>")
	for _, s := range shapes {
		if s.Type == shape.Erase {
			continue
		}
		color := s.Color
		if color == "" || theme.IsDefaultStroke(color) {
			color = theme.DefaultStrokeLight
		}
		fmt.Fprintf(bw,
			`<path d="%s" fill="transparent" stroke-linecap="round" stroke-linejoin="round" stroke="%s" stroke-width="%s"></path>`,
			shape.SmoothPath(s, render.CommittedTolerance).SVG(), html.EscapeString(color), num(s.Linewidth))
	}
	bw.WriteString("</g></svg>")
	return bw.Flush()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
