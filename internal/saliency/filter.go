package saliency

import (
	"fmt"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

// FilterPlane correlates p with k and returns a plane of the same size.
//
// The kernel anchor sits at (Width/2, Height/2) and samples outside p count as
// zero, so out(x,y) = sum over (i,j) of k(i,j) * p(x+i-ax, y+j-ay).
func FilterPlane(p *imaging.Plane, k *convolution.Kernel) *imaging.Plane {
	out := imaging.NewPlane(p.Width, p.Height)
	filterInto(out, p, k)
	return out
}

// filterInto adds the correlation of p with k to dst, which must have the
// size of p.
func filterInto(dst, p *imaging.Plane, k *convolution.Kernel) {
	w, h := p.Width, p.Height
	ax, ay := k.Width/2, k.Height/2

	for j := 0; j < k.Height; j++ {
		dy := j - ay
		// Rows of dst whose source row y+dy is inside p.
		y0, y1 := max(0, -dy), min(h, h-dy)
		for i := 0; i < k.Width; i++ {
			wt := k.Matrix[j*k.Width+i]
			if wt == 0 {
				continue
			}
			dx := i - ax
			x0, x1 := max(0, -dx), min(w, w-dx)
			for y := y0; y < y1; y++ {
				src := (y+dy)*w + dx
				row := dst.Pix[y*w : (y+1)*w]
				for x := x0; x < x1; x++ {
					row[x] += wt * p.Pix[src+x]
				}
			}
		}
	}
}

// CropInterior drops the border of a filter response where a size x size
// kernel overlapped the zero padding. It keeps columns and rows
// [size/2, n-(size-1)/2), so each side shrinks to n-size+1.
func CropInterior(p *imaging.Plane, size int) (*imaging.Plane, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: kernel size %d", ErrInvalidParameter, size)
	}
	if p.Width < size || p.Height < size {
		return nil, fmt.Errorf("%w: %dx%d plane is smaller than a %dx%d kernel",
			ErrShapeMismatch, p.Width, p.Height, size, size)
	}

	off := size / 2
	w, h := p.Width-size+1, p.Height-size+1
	out := imaging.NewPlane(w, h)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w:(y+1)*w], p.Pix[(y+off)*p.Width+off:])
	}
	return out, nil
}
