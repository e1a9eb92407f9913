package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ScaledSize returns the size of a width x height image scaled by factor.
// Each side is rounded to the nearest pixel and never drops below 1.
func ScaledSize(width, height int, factor float64) (int, int) {
	w := int(math.Round(float64(width) * factor))
	h := int(math.Round(float64(height) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Scale resizes img by factor with bilinear interpolation.
func Scale(img image.Image, factor float64) *image.NRGBA {
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), factor)
	return imaging.Resize(img, w, h, imaging.Linear)
}

// PadGray surrounds img with a black border of the given width on every side.
func PadGray(img *image.Gray, border int) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx()+2*border, b.Dy()+2*border, color.Black)
	return imaging.Paste(bg, img, image.Pt(border, border))
}

// ResizeGray resizes img to exactly width x height with bilinear interpolation
// and returns the result as 8-bit grayscale.
func ResizeGray(img image.Image, width, height int) *image.Gray {
	return AsGray(imaging.Resize(img, width, height, imaging.Linear))
}
