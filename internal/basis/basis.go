package basis

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/pkg/errors"
)

// ErrCorruptBasis is returned when a basis artifact is truncated or its header
// does not describe a usable filter bank.
var ErrCorruptBasis = errors.New("corrupt basis")

// Upper bounds on header values. They only exist to reject garbage headers
// before allocating; real filter banks are far below them.
const (
	maxKernels    = 1 << 16
	maxKernelSize = 1 << 10
	maxChannels   = 16
	maxFloats     = 1 << 28
)

// Basis is a bank of square 2-D filters, one filter per kernel and channel.
//
// A Basis is immutable once built. It is shared read-only by every saliency
// computation that uses it.
type Basis struct {
	NumKernels  int
	KernelSize  int
	NumChannels int

	// Kernels[k][c] is the filter applied to channel c for kernel k.
	Kernels [][]*convolution.Kernel
}

// New returns a basis of the given shape with all weights set to zero.
func New(numKernels, kernelSize, numChannels int) *Basis {
	b := &Basis{
		NumKernels:  numKernels,
		KernelSize:  kernelSize,
		NumChannels: numChannels,
		Kernels:     make([][]*convolution.Kernel, numKernels),
	}
	for k := range b.Kernels {
		b.Kernels[k] = make([]*convolution.Kernel, numChannels)
		for c := range b.Kernels[k] {
			b.Kernels[k][c] = convolution.NewKernel(kernelSize, kernelSize)
		}
	}
	return b
}

// Equal reports whether two bases have the same shape and weights.
func (b *Basis) Equal(o *Basis) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.NumKernels != o.NumKernels || b.KernelSize != o.KernelSize || b.NumChannels != o.NumChannels {
		return false
	}
	for k := range b.Kernels {
		for c := range b.Kernels[k] {
			bm, om := b.Kernels[k][c].Matrix, o.Kernels[k][c].Matrix
			if len(bm) != len(om) {
				return false
			}
			for i := range bm {
				if bm[i] != om[i] {
					return false
				}
			}
		}
	}
	return true
}

// Decode reads a basis artifact.
//
// The artifact is little-endian and made entirely of 32-bit floats: a header
// of three values (number of kernels, kernel size, number of channels), then
// numChannels*numKernels*kernelSize*kernelSize weights ordered by channel,
// then kernel, then row. Header values are integers stored as floats.
//
// A header that is not a positive integer triple, or a payload shorter than
// the header declares, yields ErrCorruptBasis. Bytes after the payload are
// ignored.
func Decode(r io.Reader) (*Basis, error) {
	var header [3]float32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrapf(ErrCorruptBasis, "reading header: %v", err)
	}

	numKernels, err := headerInt(header[0], maxKernels, "kernel count")
	if err != nil {
		return nil, err
	}
	kernelSize, err := headerInt(header[1], maxKernelSize, "kernel size")
	if err != nil {
		return nil, err
	}
	numChannels, err := headerInt(header[2], maxChannels, "channel count")
	if err != nil {
		return nil, err
	}

	area := kernelSize * kernelSize
	total := numChannels * numKernels * area
	if total > maxFloats {
		return nil, errors.Wrapf(ErrCorruptBasis, "header declares %d weights", total)
	}

	// The header is untrusted, so the buffer grows with the bytes actually read.
	want := 4 * total
	payload, err := io.ReadAll(io.LimitReader(r, int64(want)))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptBasis, "reading payload: %v", err)
	}
	if len(payload) < want {
		return nil, errors.Wrapf(ErrCorruptBasis, "payload has %d of %d bytes", len(payload), want)
	}

	b := New(numKernels, kernelSize, numChannels)
	for c := 0; c < numChannels; c++ {
		for k := 0; k < numKernels; k++ {
			m := b.Kernels[k][c].Matrix
			off := (c*numKernels + k) * area
			for i := range m {
				bits := binary.LittleEndian.Uint32(payload[4*(off+i):])
				m[i] = float64(math.Float32frombits(bits))
			}
		}
	}

	return b, nil
}

// Encode writes b in the layout read by Decode.
func Encode(w io.Writer, b *Basis) error {
	bw := bufio.NewWriter(w)
	header := [3]float32{float32(b.NumKernels), float32(b.KernelSize), float32(b.NumChannels)}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "writing basis header")
	}

	var buf [4]byte
	for c := 0; c < b.NumChannels; c++ {
		for k := 0; k < b.NumKernels; k++ {
			for _, v := range b.Kernels[k][c].Matrix {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v)))
				if _, err := bw.Write(buf[:]); err != nil {
					return errors.Wrap(err, "writing basis weights")
				}
			}
		}
	}

	return errors.Wrap(bw.Flush(), "flushing basis")
}

func headerInt(v float32, limit int, what string) (int, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 1 || f > float64(limit) {
		return 0, errors.Wrapf(ErrCorruptBasis, "%s %v", what, v)
	}
	return int(f), nil
}
