package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/render"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

// JPEGQuality is used for JPEG exports.
const JPEGQuality = 92

// Image renders shapes, already normalized, into a new RGBA image.
func Image(shapes []shape.Shape, size geom.Point, o Options) *image.RGBA {
	th := o.theme()
	transparent := o.transparent()
	if transparent {
		th = theme.Default()
	}
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(size.X)), int(math.Ceil(size.Y))))
	if !transparent {
		render.Fill(img, th.Background)
	}
	ds := make([]render.Drawable, 0, len(shapes))
	for _, s := range shapes {
		if transparent && s.Type == shape.Erase {
			continue
		}
		if d, ok := render.ShapeDrawable(s, th); ok {
			ds = append(ds, d)
		}
	}
	render.Rasterize(img, ds, render.Identity)
	return img
}

// Render is Image for shapes in canvas coordinates.
func Render(shapes []shape.Shape, o Options) (*image.RGBA, error) {
	norm, size, err := normalize(shapes)
	if err != nil {
		return nil, err
	}
	return Image(norm, size, o), nil
}

func writeImage(w io.Writer, shapes []shape.Shape, size geom.Point, o Options) error {
	img := Image(shapes, size, o)
	var err error
	if o.Type == JPEG {
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	} else {
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", o.Type, err)
	}
	return nil
}
