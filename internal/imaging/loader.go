package imaging

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache keeps decoded input images in memory keyed by path.
//
// Saliency requests often reuse the same scene or template, so images are
// decoded once and shared. Cached images must be treated as read-only.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images stay in memory until Evict or Clear is called.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the image at path, decoding it on first use.
//
// Parameters:
//   - path: File path of a PNG, JPEG, GIF, TIFF or BMP image. The path string
//     is the cache key, so different spellings of one file are cached twice.
//
// JPEG files are rotated according to their EXIF orientation tag so the
// saliency map lines up with what a viewer shows.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes the image loaded from path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo describes an input image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// Channels is the number of color channels the saliency engine sees:
	// 1 for grayscale images, 3 otherwise. Alpha is never used.
	Channels int `json:"channels"`

	// ColorDepth is "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and describes it.
//
// The saliency tools convert every input to 8-bit RGB, so Channels and
// ColorDepth are informational only.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
		Channels:      3,
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}

	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case *image.Gray:
		info.Channels = 1
	case *image.Gray16:
		info.Channels = 1
		info.ColorDepth = "16-bit"
	}

	return info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through cache and returns only its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
