package saliency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

func planeOf(vals ...float64) *imaging.Plane {
	p := imaging.NewPlane(len(vals), 1)
	copy(p.Pix, vals)
	return p
}

func TestHistogram_CellBounds(t *testing.T) {
	h, err := newHistogram(10, 1)
	require.NoError(t, err)

	tests := []struct {
		v    float64
		want int
		ok   bool
	}{
		{0, 0, true},
		{0.05, 0, true},
		{0.5, 4, true},
		{1.0, 9, true},
		{1.0005, 9, true},
		{1.001, 0, false},
		{-0.001, 0, false},
	}

	for _, tt := range tests {
		got, ok := h.cell(imaging.Planes{planeOf(tt.v)}, 0)
		assert.Equal(t, tt.ok, ok, "value %v", tt.v)
		if tt.ok {
			assert.Equal(t, tt.want, got, "value %v", tt.v)
		}
	}
}

func TestHistogram_JointIndex(t *testing.T) {
	h, err := newHistogram(4, 2)
	require.NoError(t, err)

	c, ok := h.cell(imaging.Planes{planeOf(0.3), planeOf(0.9)}, 0)
	require.True(t, ok)
	assert.Equal(t, 1*4+3, c)
}

func TestHistogram_Normalize(t *testing.T) {
	h, err := newHistogram(4, 1)
	require.NoError(t, err)
	h.add(imaging.Planes{planeOf(0.1, 0.1, 0.1, 0.1, 0.6, 0.6)})
	h.normalize()

	assert.Equal(t, []float64{255, 0, 127.5, 0}, h.counts)
}

func TestHistogram_NormalizeFlat(t *testing.T) {
	h, err := newHistogram(2, 1)
	require.NoError(t, err)
	h.add(imaging.Planes{planeOf(0.1, 0.9)})
	h.normalize()

	assert.Equal(t, []float64{255, 255}, h.counts)

	empty, err := newHistogram(3, 1)
	require.NoError(t, err)
	empty.normalize()
	assert.Equal(t, []float64{0, 0, 0}, empty.counts)
}

func TestHistogram_BackprojectOutOfRange(t *testing.T) {
	h, err := newHistogram(2, 1)
	require.NoError(t, err)
	h.counts = []float64{7, 9}

	out := h.backproject(imaging.Planes{planeOf(0.2, 0.8, 2, -1)})
	assert.Equal(t, []float64{7, 9, 0, 0}, out.Pix)
}

func TestFeatureBin(t *testing.T) {
	assert.Equal(t, 0, featureBin(0))
	assert.Equal(t, 0, featureBin(-0.1))
	assert.Equal(t, 128, featureBin(0.5))
	assert.Equal(t, 255, featureBin(0.999))
	assert.Equal(t, 255, featureBin(1))
	assert.Equal(t, 255, featureBin(1.2))
}

func TestFeatureHistogram_TotalsPixels(t *testing.T) {
	p := createRandomPlane(17, 13, 21)
	counts := featureHistogram(p)

	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, float64(17*13), total)
}
