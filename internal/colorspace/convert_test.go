package colorspace

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/saliency-mcp/internal/imaging"
)

// createSolidImage creates an in-memory image filled with a single color.
func createSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRandomImage creates an image with uniformly random opaque pixels.
func createRandomImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestConvert_RGBIsScaledIdentity(t *testing.T) {
	img := createRandomImage(17, 9, 1)

	out, err := Convert(img, RGB, false)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for y := 0; y < 9; y++ {
		for x := 0; x < 17; x++ {
			c := img.RGBAAt(x, y)
			assert.InDelta(t, float64(c.R)/255, out[0].At(x, y), 1e-12)
			assert.InDelta(t, float64(c.G)/255, out[1].At(x, y), 1e-12)
			assert.InDelta(t, float64(c.B)/255, out[2].At(x, y), 1e-12)
		}
	}
}

func TestConvert_ConstantGray(t *testing.T) {
	img := createSolidImage(4, 4, color.RGBA{128, 128, 128, 255})

	rgb, err := Convert(img, RGB, false)
	require.NoError(t, err)
	cmy, err := Convert(img, CMY, false)
	require.NoError(t, err)

	for c := 0; c < 3; c++ {
		for _, v := range rgb[c].Pix {
			assert.InDelta(t, 0.502, v, 1e-3, "RGB channel %d", c)
		}
		for _, v := range cmy[c].Pix {
			assert.InDelta(t, 0.498, v, 1e-3, "CMY channel %d", c)
		}
	}
}

func TestConvert_NormalizedRange(t *testing.T) {
	img := createRandomImage(32, 32, 7)
	// Include the extreme corners of the RGB cube explicitly.
	corners := []color.RGBA{
		{0, 0, 0, 255}, {255, 255, 255, 255},
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{255, 255, 0, 255}, {0, 255, 255, 255}, {255, 0, 255, 255},
	}
	for i, c := range corners {
		img.SetRGBA(i, 0, c)
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Parse(name)
			require.NoError(t, err)

			out, err := Convert(img, s, true)
			require.NoError(t, err)
			require.Len(t, out, s.Channels())

			for c, p := range out {
				for i, v := range p.Pix {
					require.False(t, math.IsNaN(v), "channel %d pixel %d is NaN", c, i)
					require.GreaterOrEqual(t, v, -1e-9, "channel %d pixel %d", c, i)
					require.LessOrEqual(t, v, 1+1e-9, "channel %d pixel %d", c, i)
				}
			}
		})
	}
}

// cubePlanes samples the RGB cube on a regular grid that includes every corner.
func cubePlanes(levels int) imaging.Planes {
	n := levels * levels * levels
	ps := imaging.Planes{imaging.NewPlane(n, 1), imaging.NewPlane(n, 1), imaging.NewPlane(n, 1)}
	i := 0
	for r := 0; r < levels; r++ {
		for g := 0; g < levels; g++ {
			for b := 0; b < levels; b++ {
				ps[0].Pix[i] = float64(r) / float64(levels-1)
				ps[1].Pix[i] = float64(g) / float64(levels-1)
				ps[2].Pix[i] = float64(b) / float64(levels-1)
				i++
			}
		}
	}
	return ps
}

// The normalization bounds must hold before clamping, otherwise distinct
// colors would collapse onto 0 or 1.
func TestConvert_NormalizationBoundsCoverCube(t *testing.T) {
	const tolerance = 1e-3
	rgb := cubePlanes(16)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Parse(name)
			require.NoError(t, err)

			raw, err := ConvertPlanes(rgb, s, false)
			require.NoError(t, err)
			norm := transforms[s].norm
			require.Len(t, norm, s.Channels())

			for c, p := range raw {
				a := norm[c]
				for i, v := range p.Pix {
					u := (v + a.shift) / a.span
					require.False(t, math.IsNaN(u), "channel %d pixel %d is NaN", c, i)
					require.GreaterOrEqual(t, u, -tolerance, "channel %d pixel %d raw %v", c, i, v)
					require.LessOrEqual(t, u, 1+tolerance, "channel %d pixel %d raw %v", c, i, v)
				}
			}
		})
	}
}

func TestConvert_PreservesDimensions(t *testing.T) {
	img := createRandomImage(13, 5, 3)
	for _, name := range Names() {
		s, _ := Parse(name)
		out, err := Convert(img, s, false)
		require.NoError(t, err)
		for _, p := range out {
			assert.Equal(t, 13, p.Width, name)
			assert.Equal(t, 5, p.Height, name)
		}
	}
}

func TestConvert_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		space   Space
		color   color.RGBA
		channel int
		want    float64
	}{
		{"hue of red", HSV, color.RGBA{255, 0, 0, 255}, 0, 0},
		{"hue of green", HSV, color.RGBA{0, 255, 0, 255}, 0, 120},
		{"hue of blue", HSL, color.RGBA{0, 0, 255, 255}, 0, 240},
		{"HSL lightness of white", HSL, color.RGBA{255, 255, 255, 255}, 2, 1},
		{"HSI intensity", HSI, color.RGBA{255, 0, 0, 255}, 2, 1.0 / 3},
		{"HSI saturation of red", HSI, color.RGBA{255, 0, 0, 255}, 1, 1},
		{"Lab L of white", Lab, color.RGBA{255, 255, 255, 255}, 0, 100},
		{"Luv L of black", Luv, color.RGBA{0, 0, 0, 255}, 0, 0},
		{"XYZ Y of white", XYZ, color.RGBA{255, 255, 255, 255}, 1, 1},
		{"UVW U of white", UVW, color.RGBA{255, 255, 255, 255}, 0, 0.66 * 0.9505},
		{"YIQ luma of white", YIQ, color.RGBA{255, 255, 255, 255}, 0, 1},
		{"YUV V of red", YUV, color.RGBA{255, 0, 0, 255}, 2, 0.877 * 0.701},
		{"OPP O3 of white", OPP, color.RGBA{255, 255, 255, 255}, 2, math.Sqrt(3)},
		{"COPP O1 of red", COPP, color.RGBA{255, 0, 0, 255}, 0, 1 / math.Sqrt2},
		{"rg r of red", Rg, color.RGBA{255, 0, 0, 255}, 0, 1},
		{"xyY Y of black", XyY, color.RGBA{0, 0, 0, 255}, 2, 0},
		{"YES E of green", YES, color.RGBA{0, 255, 0, 255}, 1, -0.5},
		{"I1I2I3 I3 of green", I1I2I3, color.RGBA{0, 255, 0, 255}, 2, 0.5},
		{"C1 of red", C1C2C3, color.RGBA{255, 0, 0, 255}, 0, math.Pi / 2},
		{"YCrCb Cr of gray", YCrCb, color.RGBA{128, 128, 128, 255}, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createSolidImage(2, 2, tt.color)
			out, err := Convert(img, tt.space, false)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, out[tt.channel].At(1, 1), 1e-3)
		})
	}
}

func TestConvert_NormalizedOpponentBounds(t *testing.T) {
	tests := []struct {
		name    string
		space   Space
		color   color.RGBA
		channel int
		want    float64
	}{
		{"OPP O3 of white maps to 1", OPP, color.RGBA{255, 255, 255, 255}, 2, 1},
		{"COPP O1 of red maps to 1", COPP, color.RGBA{255, 0, 0, 255}, 0, 1},
		{"COPP O1 of green maps to 0", COPP, color.RGBA{0, 255, 0, 255}, 0, 0},
		{"COPP O2 of yellow maps to 1", COPP, color.RGBA{255, 255, 0, 255}, 1, 1},
		{"COPP O2 of blue maps to 0", COPP, color.RGBA{0, 0, 255, 255}, 1, 0},
		{"NOPP O1 of red maps to 1", NOPP, color.RGBA{255, 0, 0, 255}, 0, 1},
		{"NOPP O2 of blue maps to 0", NOPP, color.RGBA{0, 0, 255, 255}, 1, 0},
		{"NOPP O2 of yellow maps to 1", NOPP, color.RGBA{255, 255, 0, 255}, 1, 1},
		{"C1 of black maps to middle", C1C2C3, color.RGBA{0, 0, 0, 255}, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createSolidImage(1, 1, tt.color)
			out, err := Convert(img, tt.space, true)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, out[tt.channel].Pix[0], 1e-9)
		})
	}
}

func TestConvert_BlackPixelsAreFinite(t *testing.T) {
	img := createSolidImage(3, 3, color.RGBA{0, 0, 0, 255})
	for _, name := range Names() {
		s, _ := Parse(name)
		for _, normalize := range []bool{false, true} {
			out, err := Convert(img, s, normalize)
			require.NoError(t, err)
			for c, p := range out {
				for _, v := range p.Pix {
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
						"%s channel %d normalize=%v produced %v", name, c, normalize, v)
				}
			}
		}
	}
}

func TestConvertPlanes_RejectsBadInput(t *testing.T) {
	_, err := ConvertPlanes(nil, RGB, false)
	assert.Error(t, err)

	_, err = ConvertPlanes(nil, Space(99), false)
	assert.True(t, errors.Is(err, ErrUnknownColorSpace))
}
