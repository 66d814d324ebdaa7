package atlas

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// The .tex artifact is deliberately minimal so the runtime never parses a
// general image format: u16 width, u16 height, then width*height*4 RGBA
// bytes, all little-endian.

// WriteTex writes the raster artifact for an atlas image.
func WriteTex(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || width > 0xFFFF || height <= 0 || height > 0xFFFF {
		return fmt.Errorf("atlas: image %dx%d does not fit the tex container", width, height)
	}

	var hdr [4]byte
	binary.LittleEndian.PutUint16(hdr[0:], uint16(width))
	binary.LittleEndian.PutUint16(hdr[2:], uint16(height))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	// Stride may exceed width*4; write row by row.
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ReadTex reads a .tex artifact back into an image.
func ReadTex(r io.Reader) (*image.NRGBA, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("atlas: tex header: %w", err)
	}
	width := int(binary.LittleEndian.Uint16(hdr[0:]))
	height := int(binary.LittleEndian.Uint16(hdr[2:]))
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("atlas: tex has zero dimension %dx%d", width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if _, err := io.ReadFull(r, img.Pix); err != nil {
		return nil, fmt.Errorf("atlas: tex pixels: %w", err)
	}
	return img, nil
}

// WritePreview writes a lossless WebP preview of the atlas, for eyeballing
// composited results without a custom loader.
func WritePreview(w io.Writer, img *image.NRGBA) error {
	return nativewebp.Encode(w, img, nil)
}
