package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage writes a solid PNG image into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, "test-image.png", solidImage(width, height, c))
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeTestImage(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache()

	img, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
	assert.Equal(t, 1, cache.Len())

	again, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, img.(*image.RGBA), again.(*image.RGBA))
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.Load("/nonexistent/path/image.png")
	assert.Error(t, err)

	bogus := filepath.Join(t.TempDir(), "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o644))
	_, err = cache.Load(bogus)
	assert.Error(t, err)

	assert.Equal(t, 0, cache.Len(), "failed loads are not cached")
}

func TestImageCache_EvictAndClear(t *testing.T) {
	p1 := createTestImage(t, 10, 10, color.White)
	p2 := createTestImage(t, 20, 20, color.Black)
	cache := NewImageCache()

	_, err := cache.Load(p1)
	require.NoError(t, err)
	_, err = cache.Load(p2)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	cache.Evict(p1)
	cache.Evict("/never/loaded.png")
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 64, 64, color.RGBA{0, 0, 255, 255})
	cache := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := cache.Load(path)
			assert.NoError(t, err)
			assert.Equal(t, 64, img.Bounds().Dx())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 120, 90, color.RGBA{10, 20, 30, 255})

	info, err := LoadImageInfo(NewImageCache(), path)
	require.NoError(t, err)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 90, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 3, info.Channels)
	assert.Equal(t, "8-bit", info.ColorDepth)
	assert.Greater(t, info.FileSizeBytes, int64(0))
}

func TestLoadImageInfo_Grayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 6))
	path := writeTestImage(t, "gray.png", gray)

	info, err := LoadImageInfo(NewImageCache(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Channels)
	assert.False(t, info.HasAlpha)
}

func TestLoadImageInfo_UnknownExtension(t *testing.T) {
	path := writeTestImage(t, "image.dat", solidImage(4, 4, color.White))

	info, err := LoadImageInfo(NewImageCache(), path)
	require.NoError(t, err)
	assert.Equal(t, "unknown", info.Format)
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	_, err := LoadImageInfo(NewImageCache(), "/nonexistent/image.png")
	assert.Error(t, err)
}

func TestGetDimensions(t *testing.T) {
	path := createTestImage(t, 33, 17, color.White)

	dims, err := GetDimensions(NewImageCache(), path)
	require.NoError(t, err)
	assert.Equal(t, &DimensionsResult{Width: 33, Height: 17}, dims)

	_, err = GetDimensions(NewImageCache(), "/nonexistent/image.png")
	assert.Error(t, err)
}
