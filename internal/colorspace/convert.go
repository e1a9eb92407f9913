package colorspace

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/math/f64"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

// CIE reference white used to normalize XYZ.
const (
	whiteX = 0.950456
	whiteZ = 1.088754
)

var (
	sqrt2 = math.Sqrt2
	sqrt3 = math.Sqrt(3)
	sqrt6 = math.Sqrt(6)
)

// affine maps a channel into [0,1] as (v + shift) / span.
type affine struct {
	shift float64
	span  float64
}

var unit = affine{0, 1}

// transform converts one pixel and knows how to range-normalize its output.
type transform struct {
	pixel func(r, g, b float64, out []float64)
	norm  []affine
}

var transforms = [numSpaces]transform{
	RGB: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1], out[2] = r, g, b
		},
		norm: []affine{unit, unit, unit},
	},
	HSV: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1], out[2] = colorful.Color{R: r, G: g, B: b}.Hsv()
		},
		norm: []affine{{0, 360}, unit, unit},
	},
	HSL: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1], out[2] = colorful.Color{R: r, G: g, B: b}.Hsl()
		},
		norm: []affine{{0, 360}, unit, unit},
	},
	HSI: {
		pixel: hsi,
		norm:  []affine{{0, 360}, unit, unit},
	},
	Lab: {
		pixel: func(r, g, b float64, out []float64) {
			l, a, bb := colorful.Color{R: r, G: g, B: b}.Lab()
			out[0], out[1], out[2] = l*100, a*100, bb*100
		},
		norm: []affine{{0, 100}, {127, 254}, {127, 254}},
	},
	Luv: {
		pixel: func(r, g, b float64, out []float64) {
			l, u, v := colorful.Color{R: r, G: g, B: b}.Luv()
			out[0], out[1], out[2] = l*100, u*100, v*100
		},
		norm: []affine{{0, 100}, {134, 354}, {140, 262}},
	},
	CMY: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1], out[2] = 1-r, 1-g, 1-b
		},
		norm: []affine{unit, unit, unit},
	},
	C1C2C3: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = math.Atan2(r, math.Max(g, b))
			out[1] = math.Atan2(g, math.Max(r, b))
			out[2] = math.Atan2(b, math.Max(r, g))
		},
		norm: []affine{{math.Pi / 2, math.Pi}, {math.Pi / 2, math.Pi}, {math.Pi / 2, math.Pi}},
	},
	COPP: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = (r - g) / sqrt2
			out[1] = (r + g - 2*b) / sqrt6
		},
		norm: []affine{{1 / sqrt2, 2 / sqrt2}, {2 / sqrt6, 4 / sqrt6}},
	},
	OPP: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = (r - g) / sqrt2
			out[1] = (r + g - 2*b) / sqrt6
			out[2] = (r + g + b) / sqrt3
		},
		norm: []affine{{1 / sqrt2, 2 / sqrt2}, {2 / sqrt6, 4 / sqrt6}, {0, sqrt3}},
	},
	NOPP: {
		pixel: nopp,
		// O1/O3 spans ±√3/√2 and O2/O3 spans [-2√3/√6, √3/√6].
		norm: []affine{
			{sqrt3 / sqrt2, 2 * sqrt3 / sqrt2},
			{2 * sqrt3 / sqrt6, 3 * sqrt3 / sqrt6},
		},
	},
	YCrCb: {
		pixel: func(r, g, b float64, out []float64) {
			y := 0.299*r + 0.587*g + 0.114*b
			out[0] = y
			out[1] = (r-y)*0.713 + 0.5
			out[2] = (b-y)*0.564 + 0.5
		},
		norm: []affine{unit, unit, unit},
	},
	YIQ: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = 0.299*r + 0.587*g + 0.114*b
			out[1] = 0.596*r - 0.274*g - 0.322*b
			out[2] = 0.211*r - 0.523*g - 0.312*b
		},
		norm: []affine{unit, {0.596, 1.192}, {0.835, 1.046}},
	},
	XYZ: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1], out[2] = colorful.LinearRgbToXyz(r, g, b)
		},
		norm: []affine{{0, whiteX}, unit, {0, whiteZ}},
	},
	UVW: {
		pixel: func(r, g, b float64, out []float64) {
			x, y, z := colorful.LinearRgbToXyz(r, g, b)
			out[0] = 0.66 * x
			out[1] = y
			out[2] = -0.5*x + 1.5*y + 0.5*z
		},
		norm: []affine{{0, 0.66}, unit, {0, 1.569149}},
	},
	YUV: {
		pixel: func(r, g, b float64, out []float64) {
			y := 0.299*r + 0.587*g + 0.114*b
			out[0] = y
			out[1] = 0.492 * (b - y)
			out[2] = 0.877 * (r - y)
		},
		norm: []affine{unit, {0.435912, 0.871824}, {0.614777, 1.229554}},
	},
	XyY: {
		pixel: func(r, g, b float64, out []float64) {
			x, y, z := colorful.LinearRgbToXyz(r, g, b)
			out[0], out[1] = chromaticity(x, y, z)
			out[2] = y
		},
		norm: []affine{{0, 0.64}, {0, 0.6}, unit},
	},
	Rg: {
		pixel: func(r, g, b float64, out []float64) {
			out[0], out[1] = chromaticity(r, g, b)
		},
		norm: []affine{unit, unit},
	},
	YES: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = 0.253*r + 0.684*g + 0.063*b
			out[1] = 0.5*r - 0.5*g
			out[2] = 0.25*r + 0.25*g - 0.5*b
		},
		norm: []affine{unit, {0.5, 1}, {0.5, 1}},
	},
	I1I2I3: {
		pixel: func(r, g, b float64, out []float64) {
			out[0] = (r + g + b) / 3
			out[1] = (r - b) / 2
			out[2] = (2*g - r - b) / 4
		},
		norm: []affine{unit, {0.5, 1}, {0.5, 1}},
	},
}

// hsi takes its hue from HSL and replaces saturation and lightness with the
// HSI definitions. Black pixels get zero saturation.
func hsi(r, g, b float64, out []float64) {
	h, _, _ := colorful.Color{R: r, G: g, B: b}.Hsl()
	i := (r + g + b) / 3
	s := 0.0
	if math.Max(r, math.Max(g, b)) != 0 {
		s = 1 - math.Min(r, math.Min(g, b))/i
	}
	out[0], out[1], out[2] = h, s, i
}

// nopp divides the opponent chrominance channels by luminance. A black pixel
// has no chrominance; both channels are 0 there.
func nopp(r, g, b float64, out []float64) {
	o3 := (r + g + b) / sqrt3
	if o3 == 0 {
		out[0], out[1] = 0, 0
		return
	}
	out[0] = (r - g) / sqrt2 / o3
	out[1] = (r + g - 2*b) / sqrt6 / o3
}

// chromaticity returns a/(a+b+c) and b/(a+b+c), or zeros when the sum is zero.
func chromaticity(a, b, c float64) (float64, float64) {
	sum := a + b + c
	if sum == 0 {
		return 0, 0
	}
	return a / sum, b / sum
}

// Convert re-expresses an 8-bit RGB image in color space s.
//
// Samples are first scaled to [0,1]. When normalize is true every output
// channel is mapped into [0,1] using the theoretical bounds of the transform,
// so the result can be histogrammed over a fixed range; otherwise the native
// range of the transform is kept (hue in degrees, L in [0,100], and so on).
//
// The output always has the spatial size of img and s.Channels() planes.
func Convert(img image.Image, s Space, normalize bool) (imaging.Planes, error) {
	return ConvertPlanes(imaging.RGBPlanes(img), s, normalize)
}

// ConvertPlanes is Convert for input that is already split into R, G and B
// planes scaled to [0,1].
func ConvertPlanes(rgb imaging.Planes, s Space, normalize bool) (imaging.Planes, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColorSpace, s)
	}
	if rgb.Channels() != 3 {
		return nil, fmt.Errorf("color conversion needs 3 channels, got %d", rgb.Channels())
	}
	if err := rgb.Validate(); err != nil {
		return nil, fmt.Errorf("color conversion: %w", err)
	}

	t := transforms[s]
	w, h := rgb.Size()
	n := s.Channels()
	out := make(imaging.Planes, n)
	for c := range out {
		out[c] = imaging.NewPlane(w, h)
	}

	parallel.Line(h, func(start, end int) {
		px := make([]float64, 3)
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				t.pixel(rgb[0].Pix[i], rgb[1].Pix[i], rgb[2].Pix[i], px)
				for c := 0; c < n; c++ {
					v := px[c]
					if normalize {
						a := t.norm[c]
						v = f64.Clamp((v+a.shift)/a.span, 0, 1)
					}
					out[c].Pix[i] = v
				}
			}
		}
	})

	return out, nil
}
