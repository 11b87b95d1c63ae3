// Package export writes papers to SVG, PNG, JPEG and PDF files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

// Padding is the space around the drawing on each side.
const Padding = 25

// Type is an export file format.
type Type string

const (
	SVG  Type = "svg"
	PNG  Type = "png"
	JPEG Type = "jpeg"
	PDF  Type = "pdf"
)

// Types lists the supported formats.
var Types = []Type{SVG, PNG, JPEG, PDF}

var (
	// ErrEmptyPaper is returned when there is nothing to export.
	ErrEmptyPaper = errors.New("paper has no shapes")
	// ErrUnsupportedType is returned for unknown formats.
	ErrUnsupportedType = errors.New("unsupported export type")
	// ErrExists is returned by WriteFile when the target exists and
	// overwriting was not requested.
	ErrExists = errors.New("file already exists")
)

// ParseType accepts a format name or file extension.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}

// Options controls an export.
type Options struct {
	Type Type
	// Theme picks background and default stroke for raster and PDF output.
	// Nil means the light theme.
	Theme *theme.Theme
	// Transparent skips the background of PNG exports.
	Transparent bool
}

func (o Options) theme() *theme.Theme {
	if o.Theme == nil {
		return theme.Default()
	}
	return o.Theme
}

func (o Options) transparent() bool {
	return o.Transparent && o.Type == PNG
}

// Export writes shapes to w in the requested format. The drawing is moved so
// its bounding box starts at Padding.
func Export(w io.Writer, shapes []shape.Shape, o Options) error {
	norm, size, err := normalize(shapes)
	if err != nil {
		return err
	}
	switch o.Type {
	case SVG:
		return writeSVG(w, norm, size)
	case PNG, JPEG:
		return writeImage(w, norm, size, o)
	case PDF:
		return writePDF(w, norm, size, o)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, o.Type)
}

// normalize shifts shapes so the drawing starts at (Padding, Padding) and
// returns the page size.
func normalize(shapes []shape.Shape) ([]shape.Shape, geom.Point, error) {
	var drawn []shape.Shape
	for _, s := range shapes {
		if s.Type == shape.Select || len(s.Points) == 0 {
			continue
		}
		drawn = append(drawn, s)
	}
	bbox := shape.ShapesBBox(drawn)
	if len(drawn) == 0 || bbox.Empty() {
		return nil, geom.Point{}, ErrEmptyPaper
	}
	out := make([]shape.Shape, len(drawn))
	for i, s := range drawn {
		out[i] = s.Shift(Padding-bbox.Min.X, Padding-bbox.Min.Y)
	}
	size := geom.Pt(bbox.Width()+2*Padding, bbox.Height()+2*Padding)
	return out, size, nil
}

// Filename builds a file name from a paper name: characters that are not
// safe in file names become underscores.
func Filename(name string, t Type) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == ' ', r == '.':
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	clean = strings.Trim(clean, ". ")
	if clean == "" {
		clean = "paper"
	}
	return clean + "." + string(t)
}

// WriteFile exports into path. An existing file is only replaced when force
// is set.
func WriteFile(path string, shapes []shape.Shape, o Options, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Export(f, shapes, o); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
