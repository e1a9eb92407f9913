package saliency

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/anthonynsimon/bild/math/f64"
)

// PercentileThreshold zeroes every pixel of m that lies strictly below the
// given percentile of m's values. Pixels at or above the cutoff keep their
// original value; the result is not binarized.
//
// The cutoff interpolates between adjacent order statistics: with the n
// values sorted ascending, ip = (percentile/100)*(n+1) is split into an
// integer part k and a fraction f, and the cutoff is
// (1-f)*sorted[k-1] + f*sorted[k], with both indices clamped into the slice.
//
// Parameters:
//   - m: The map to threshold. It is not modified.
//   - percentile: Clamped to [0,100]. 0 returns a copy of m; 100 keeps only
//     the pixels holding the maximum value.
//
// Returns a new image with its origin at (0,0). A NaN percentile yields
// ErrInvalidParameter.
func PercentileThreshold(m *image.Gray, percentile float64) (*image.Gray, error) {
	if math.IsNaN(percentile) {
		return nil, fmt.Errorf("%w: percentile is NaN", ErrInvalidParameter)
	}
	percentile = f64.Clamp(percentile, 0, 100)

	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], m.Pix[y*m.Stride:y*m.Stride+w])
	}
	if len(out.Pix) == 0 {
		return out, nil
	}

	cutoff := percentileValue(out.Pix, percentile)
	for i, v := range out.Pix {
		if float64(v) < cutoff {
			out.Pix[i] = 0
		}
	}

	return out, nil
}

// percentileValue returns the interpolated percentile of vals. vals is not
// reordered.
func percentileValue(vals []uint8, percentile float64) float64 {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	n := len(sorted)

	ip := percentile / 100 * float64(n+1)
	k := math.Floor(ip)
	f := ip - k

	lo := clampIndex(int(k)-1, n)
	hi := clampIndex(int(k), n)
	return (1-f)*float64(sorted[lo]) + f*float64(sorted[hi])
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
