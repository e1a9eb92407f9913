package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/math/f64"
	"github.com/disintegration/imaging"
)

// Plane is a single channel of floating point samples stored in row-major order.
//
// Planes are the working representation of every saliency computation: images
// enter the engine as 8-bit image.Image values, are split into one Plane per
// channel scaled to [0,1], and leave it again as *image.Gray.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zero-filled plane of the given size.
func NewPlane(width, height int) *Plane {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the sample at (x, y). Coordinates must be inside the plane.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores v at (x, y). Coordinates must be inside the plane.
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	c := NewPlane(p.Width, p.Height)
	copy(c.Pix, p.Pix)
	return c
}

// SameSize reports whether two planes have identical dimensions.
func (p *Plane) SameSize(o *Plane) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// Planes is a multi-channel float image, one Plane per channel.
//
// All planes of a Planes value share the same dimensions.
type Planes []*Plane

// Channels returns the number of channels.
func (ps Planes) Channels() int {
	return len(ps)
}

// Size returns the width and height shared by all planes, or (0, 0) when empty.
func (ps Planes) Size() (int, int) {
	if len(ps) == 0 {
		return 0, 0
	}
	return ps[0].Width, ps[0].Height
}

// Validate checks that every plane has the dimensions of the first one.
func (ps Planes) Validate() error {
	if len(ps) == 0 {
		return fmt.Errorf("no channels")
	}
	for i, p := range ps[1:] {
		if !p.SameSize(ps[0]) {
			return fmt.Errorf("channel %d is %dx%d, channel 0 is %dx%d",
				i+1, p.Width, p.Height, ps[0].Width, ps[0].Height)
		}
	}
	return nil
}

// ToNRGBA returns img as a tightly packed *image.NRGBA with its origin at (0,0).
//
// Images that already satisfy this are returned as-is; everything else is
// copied through imaging.Clone, which also normalizes the color model.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	return imaging.Clone(img)
}

// RGBPlanes splits img into R, G and B planes scaled from 8-bit samples to [0,1].
// Alpha is ignored.
func RGBPlanes(img image.Image) Planes {
	src := ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r, g, b := NewPlane(w, h), NewPlane(w, h), NewPlane(w, h)

	for i := 0; i < w*h; i++ {
		o := i * 4
		r.Pix[i] = float64(src.Pix[o]) / 255.0
		g.Pix[i] = float64(src.Pix[o+1]) / 255.0
		b.Pix[i] = float64(src.Pix[o+2]) / 255.0
	}

	return Planes{r, g, b}
}

// LumaPlane returns the ITU-R BT.601 luminance of img scaled to [0,1].
func LumaPlane(img image.Image) *Plane {
	rgb := RGBPlanes(img)
	w, h := rgb.Size()
	l := NewPlane(w, h)
	for i := range l.Pix {
		l.Pix[i] = 0.299*rgb[0].Pix[i] + 0.587*rgb[1].Pix[i] + 0.114*rgb[2].Pix[i]
	}
	return l
}

// Gray converts a plane holding values in [0,255] to an 8-bit image.
// Values are rounded and saturated, matching a saturating float-to-byte cast.
func (p *Plane) Gray() *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for i, v := range p.Pix {
		dst.Pix[i] = saturate(v)
	}
	return dst
}

// AsGray converts any image to an 8-bit grayscale image with its origin at (0,0).
func AsGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return dst
}

func saturate(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(f64.Clamp(v, 0, 255)))
}
