package saliency

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

const (
	// histUpper is the exclusive upper bound of backprojection histograms. It
	// sits slightly above 1 so normalized values of exactly 1 fall in the last bin.
	histUpper = 1.001

	// maxHistogramCells bounds numBins^channels.
	maxHistogramCells = 1 << 24

	// featureBins is the fixed bin count of AIM feature histograms over [0,1].
	featureBins = 256
)

// histogram is a dense joint histogram over one or more channels with the
// same number of bins per channel on [0, histUpper).
type histogram struct {
	bins   int
	dims   int
	counts []float64
}

func newHistogram(bins, dims int) (*histogram, error) {
	cells := 1
	for d := 0; d < dims; d++ {
		cells *= bins
		if cells > maxHistogramCells {
			return nil, fmt.Errorf("%w: %d bins over %d channels exceeds %d cells",
				ErrInvalidParameter, bins, dims, maxHistogramCells)
		}
	}
	return &histogram{
		bins:   bins,
		dims:   dims,
		counts: make([]float64, cells),
	}, nil
}

// cell returns the flat index of pixel i of ps, or false when any channel
// falls outside [0, histUpper).
func (h *histogram) cell(ps imaging.Planes, i int) (int, bool) {
	idx := 0
	for _, p := range ps {
		v := p.Pix[i]
		if !(v >= 0 && v < histUpper) {
			return 0, false
		}
		b := int(v / histUpper * float64(h.bins))
		if b >= h.bins {
			b = h.bins - 1
		}
		idx = idx*h.bins + b
	}
	return idx, true
}

// add counts every pixel of ps.
func (h *histogram) add(ps imaging.Planes) {
	w, ht := ps.Size()
	for i := 0; i < w*ht; i++ {
		if c, ok := h.cell(ps, i); ok {
			h.counts[c]++
		}
	}
}

// normalize min-max scales the counts to [0,255]. When every cell holds the
// same count, occupied cells become 255.
func (h *histogram) normalize() {
	lo, hi := floats.Min(h.counts), floats.Max(h.counts)
	if hi == lo {
		for i, v := range h.counts {
			if v > 0 {
				h.counts[i] = 255
			}
		}
		return
	}
	floats.AddConst(-lo, h.counts)
	floats.Scale(255/(hi-lo), h.counts)
}

// backproject replaces every pixel of ps with the value of its cell.
// Out-of-range pixels become 0.
func (h *histogram) backproject(ps imaging.Planes) *imaging.Plane {
	w, ht := ps.Size()
	out := imaging.NewPlane(w, ht)
	for i := range out.Pix {
		if c, ok := h.cell(ps, i); ok {
			out.Pix[i] = h.counts[c]
		}
	}
	return out
}

// featureBin maps a value in [0,1] to one of featureBins bins. The same
// mapping is used to build feature histograms and to look pixels up in them.
func featureBin(v float64) int {
	b := int(math.Floor(v * featureBins))
	if b < 0 {
		return 0
	}
	if b >= featureBins {
		return featureBins - 1
	}
	return b
}

// featureHistogram counts the values of p, which must lie in [0,1].
func featureHistogram(p *imaging.Plane) [featureBins]float64 {
	var counts [featureBins]float64
	for _, v := range p.Pix {
		counts[featureBin(v)]++
	}
	return counts
}
