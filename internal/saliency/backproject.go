package saliency

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/saliency-mcp/internal/colorspace"
	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

// Backproject marks the pixels of img whose color occurs in tmpl.
//
// Both images are converted to space with range normalization. A joint
// histogram of the template with numBins bins per channel is built over
// [0, 1.001), min-max scaled to [0,255] and looked up at every pixel of img.
// Pixels with a positive lookup become 255 and all others 0, so the result
// is a binary mask the size of img.
//
// When normalize is true both images first go through NormalizeIntensity,
// which removes brightness so only chromaticity is compared. The flag always
// governs the template and the image together; the template is never
// intensity-normalized on its own.
//
// # Errors
//
//   - ErrInvalidParameter if numBins is not positive or the joint histogram
//     would be unreasonably large
//   - colorspace.ErrUnknownColorSpace if space is not a valid Space
//   - ErrShapeMismatch if the converted images disagree on channel count
func Backproject(img, tmpl image.Image, space colorspace.Space, numBins int, normalize bool) (*image.Gray, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("%w: numBins must be positive, got %d", ErrInvalidParameter, numBins)
	}
	if !space.Valid() {
		return nil, fmt.Errorf("%w: %s", colorspace.ErrUnknownColorSpace, space)
	}

	tp, err := convertForHistogram(tmpl, space, normalize)
	if err != nil {
		return nil, fmt.Errorf("converting template: %w", err)
	}
	ip, err := convertForHistogram(img, space, normalize)
	if err != nil {
		return nil, fmt.Errorf("converting image: %w", err)
	}
	if tp.Channels() != ip.Channels() {
		return nil, fmt.Errorf("%w: template has %d channels, image has %d",
			ErrShapeMismatch, tp.Channels(), ip.Channels())
	}

	hist, err := newHistogram(numBins, tp.Channels())
	if err != nil {
		return nil, err
	}
	hist.add(tp)
	hist.normalize()

	mask := hist.backproject(ip)
	for i, v := range mask.Pix {
		if v > 0 {
			mask.Pix[i] = 255
		} else {
			mask.Pix[i] = 0
		}
	}

	return mask.Gray(), nil
}

// BackprojectByName is Backproject with the color space given by name.
func BackprojectByName(img, tmpl image.Image, name string, numBins int, normalize bool) (*image.Gray, error) {
	space, err := colorspace.Parse(name)
	if err != nil {
		return nil, err
	}
	return Backproject(img, tmpl, space, numBins, normalize)
}

func convertForHistogram(img image.Image, space colorspace.Space, normalize bool) (imaging.Planes, error) {
	if normalize {
		return colorspace.ConvertPlanes(NormalizeIntensity(img), space, true)
	}
	return colorspace.Convert(img, space, true)
}

// NormalizeIntensity divides every 8-bit sample by the sum of its pixel's
// channels, rescales the ratio to 0..255 and truncates it, then returns R, G
// and B planes scaled to [0,1] like imaging.RGBPlanes.
//
// Black pixels use 1/sqrt(3) as the divisor and therefore stay black.
func NormalizeIntensity(img image.Image) imaging.Planes {
	src := imaging.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := imaging.Planes{imaging.NewPlane(w, h), imaging.NewPlane(w, h), imaging.NewPlane(w, h)}

	zeroSum := 1 / math.Sqrt(3)
	for i := 0; i < w*h; i++ {
		px := src.Pix[i*4 : i*4+3]
		sum := float64(int(px[0]) + int(px[1]) + int(px[2]))
		if sum == 0 {
			sum = zeroSum
		}
		for c := 0; c < 3; c++ {
			// Multiply before dividing so exact ratios do not round down.
			out[c].Pix[i] = math.Floor(float64(px[c])*255/sum) / 255
		}
	}
	return out
}
