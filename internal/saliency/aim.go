package saliency

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/saliency-mcp/internal/basis"
	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

// logEpsilon keeps the log-likelihood finite for empty histogram bins.
const logEpsilon = 1e-6

// AIM computes a bottom-up saliency map by Attention based on Information
// Maximization.
//
// The image is resized by scale and filtered with every kernel of b. Each
// filter response is rescaled with one range shared by all kernels, its
// empirical distribution is estimated with a 256-bin histogram, and the
// self-information -log p of every pixel is summed over kernels. The sum is
// rescaled to 0..255, padded back by half a kernel and resized to the size of
// img.
//
// Parameters:
//   - img: Any image. For a 3-channel basis the channels are fed to the
//     kernels in B, G, R order; for a 1-channel basis the luma is used.
//   - scale: Resize factor applied before filtering. Must be positive and
//     finite. Smaller values trade detail for speed.
//   - b: The filter bank. It is only read.
//
// Returns an 8-bit map with exactly the dimensions of img.
//
// # Errors
//
//   - ErrInvalidParameter for a nil basis or an invalid scale
//   - ErrShapeMismatch if the basis has neither 1 nor 3 channels, or the
//     resized image is smaller than a kernel
func AIM(img image.Image, scale float64, b *basis.Basis) (*image.Gray, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil basis", ErrInvalidParameter)
	}
	if b.NumKernels < 1 || b.KernelSize < 1 {
		return nil, fmt.Errorf("%w: empty basis %dx%dx%d", ErrInvalidParameter, b.NumKernels, b.KernelSize, b.KernelSize)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: scale must be positive and finite, got %v", ErrInvalidParameter, scale)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrShapeMismatch)
	}

	scaled := imaging.Scale(img, scale)
	channels, err := basisChannels(scaled, b.NumChannels)
	if err != nil {
		return nil, err
	}
	w, h := channels.Size()
	if w < b.KernelSize || h < b.KernelSize {
		return nil, fmt.Errorf("%w: %dx%d image at scale %v is smaller than the %dx%d kernels",
			ErrShapeMismatch, w, h, scale, b.KernelSize, b.KernelSize)
	}

	features := filterBank(channels, b)
	rescaleShared(features)

	info := selfInformation(features)
	rescaleTo8Bit(info)

	padded := imaging.PadGray(info.Gray(), b.KernelSize/2)
	return imaging.ResizeGray(padded, bounds.Dx(), bounds.Dy()), nil
}

// AIMFromPath is AIM with the basis loaded through store. A nil store means
// basis.Default().
func AIMFromPath(img image.Image, scale float64, path string, store *basis.Store) (*image.Gray, error) {
	if store == nil {
		store = basis.Default()
	}
	b, err := store.Load(path)
	if err != nil {
		return nil, err
	}
	return AIM(img, scale, b)
}

// basisChannels splits img into the planes a basis with n channels expects.
func basisChannels(img image.Image, n int) (imaging.Planes, error) {
	switch n {
	case 3:
		rgb := imaging.RGBPlanes(img)
		return imaging.Planes{rgb[2], rgb[1], rgb[0]}, nil
	case 1:
		return imaging.Planes{imaging.LumaPlane(img)}, nil
	default:
		return nil, fmt.Errorf("%w: basis has %d channels, want 1 or 3", ErrShapeMismatch, n)
	}
}

// filterBank returns one cropped response per kernel. Kernels run in
// parallel; each worker only writes its own slots.
func filterBank(channels imaging.Planes, b *basis.Basis) []*imaging.Plane {
	w, h := channels.Size()
	features := make([]*imaging.Plane, b.NumKernels)

	parallel.Line(b.NumKernels, func(start, end int) {
		for k := start; k < end; k++ {
			sum := imaging.NewPlane(w, h)
			for c, p := range channels {
				filterInto(sum, p, b.Kernels[k][c])
			}
			// The size was checked against the kernel, so cropping cannot fail.
			features[k], _ = CropInterior(sum, b.KernelSize)
		}
	})

	return features
}

// rescaleShared maps all features into [0,1] with their common minimum and
// maximum so that likelihoods stay comparable across kernels. A zero range
// yields all zeros.
func rescaleShared(features []*imaging.Plane) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range features {
		lo = math.Min(lo, floats.Min(f.Pix))
		hi = math.Max(hi, floats.Max(f.Pix))
	}

	for _, f := range features {
		if hi == lo {
			floats.Scale(0, f.Pix)
			continue
		}
		floats.AddConst(-lo, f.Pix)
		floats.Scale(1/(hi-lo), f.Pix)
	}
}

// selfInformation sums -log(p + epsilon) over features, where p is the
// frequency of a pixel's bin in its feature's histogram.
func selfInformation(features []*imaging.Plane) *imaging.Plane {
	acc := imaging.NewPlane(features[0].Width, features[0].Height)
	total := float64(len(acc.Pix))

	for _, f := range features {
		counts := featureHistogram(f)
		var nll [featureBins]float64
		for i, c := range counts {
			nll[i] = -math.Log(c/total + logEpsilon)
		}
		for i, v := range f.Pix {
			acc.Pix[i] += nll[featureBin(v)]
		}
	}

	return acc
}

// rescaleTo8Bit maps p onto [0,255]. A constant plane becomes all zeros.
func rescaleTo8Bit(p *imaging.Plane) {
	lo, hi := floats.Min(p.Pix), floats.Max(p.Pix)
	if hi == lo {
		floats.Scale(0, p.Pix)
		return
	}
	floats.AddConst(-lo, p.Pix)
	floats.Scale(255/(hi-lo), p.Pix)
}
