package atlas

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Overlay is one decoded image destined for a named region of the atlas.
type Overlay struct {
	Image  *image.NRGBA
	Region Region
	Layer  Layer // informational; callers order overlays before compositing
	Name   string
}

// Composite alpha-composites the overlays onto a copy of the base image,
// in the order given. Each overlay is scaled to its region and applied
// with the "over" operator per region, never globally: regions do not
// tile the atlas, so pixels outside every region must stay untouched.
// The base image is not modified.
func Composite(base *image.NRGBA, overlays []Overlay) (*image.NRGBA, error) {
	size := base.Bounds().Dx()
	if base.Bounds().Dy() != size {
		return nil, fmt.Errorf("atlas: base image %dx%d is not square", size, base.Bounds().Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	copy(dst.Pix, base.Pix)

	for _, ov := range overlays {
		if ov.Image == nil {
			continue
		}
		applyOverlay(dst, ov, size)
	}
	return dst, nil
}

func applyOverlay(dst *image.NRGBA, ov Overlay, size int) {
	region := ov.Region.scaled(size)
	if region.W <= 0 || region.H <= 0 {
		return
	}

	src := ov.Image
	if src.Bounds().Dx() != region.W || src.Bounds().Dy() != region.H {
		scaled := image.NewNRGBA(image.Rect(0, 0, region.W, region.H))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
		src = scaled
	}

	for y := 0; y < region.H; y++ {
		dy := region.Y + y
		if dy < 0 || dy >= size {
			continue
		}
		si := src.PixOffset(0, y)
		di := dst.PixOffset(region.X, dy)
		for x := 0; x < region.W; x++ {
			dx := region.X + x
			if dx >= 0 && dx < size {
				over(dst.Pix[di:di+4], src.Pix[si:si+4])
			}
			si += 4
			di += 4
		}
	}
}

// over applies the standard "over" operator: dst = src*a + dst*(1-a).
// Fully-opaque source pixels overwrite, fully-transparent ones are a no-op.
func over(dst, src []byte) {
	a := uint32(src[3])
	switch a {
	case 0:
		return
	case 255:
		copy(dst, src)
		return
	}
	na := 255 - a
	for c := 0; c < 3; c++ {
		dst[c] = uint8((uint32(src[c])*a + uint32(dst[c])*na + 127) / 255)
	}
	da := a + uint32(dst[3])*na/255
	if da > 255 {
		da = 255
	}
	dst[3] = uint8(da)
}
