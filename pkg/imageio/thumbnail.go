package imageio

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down to maxWidth pixels wide, keeping the aspect ratio.
// Images already narrower than maxWidth are returned as a copy at full size.
func Thumbnail(img *image.RGBA, maxWidth int) *image.RGBA {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return toRGBA(img)
	}

	// Height 0 tells resize to preserve the aspect ratio
	scaled := resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
	return toRGBA(scaled)
}

func toRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}
