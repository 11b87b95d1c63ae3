// Package clipboard publishes exported papers on the system clipboard.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Content is what an export offers. Empty fields are not offered.
type Content struct {
	PNG []byte
	// SVG is also offered as plain text so editors can paste the markup.
	SVG []byte
}

// WriteImage encodes img as PNG and publishes it.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return Write(Content{PNG: buf.Bytes()})
}

// WriteSVG publishes SVG markup.
func WriteSVG(svg []byte) error {
	return Write(Content{SVG: svg})
}
