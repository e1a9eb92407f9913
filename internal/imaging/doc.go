// Package imaging provides the image plumbing around the saliency engine.
//
// It covers three concerns:
//   - Loading: ImageCache decodes input files once and shares them between
//     tool calls.
//   - Float planes: Plane and Planes hold one float64 sample per pixel and
//     channel, the working representation of every saliency computation.
//   - Output: resizing, padding and PNG encoding of 8-bit maps.
//
// Resampling, padding, decoding and encoding are delegated to
// github.com/disintegration/imaging.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. Planes
// and the images this package returns always have their origin at (0,0),
// whatever the bounds of the input.
//
// # Sample Ranges
//
// Planes built from images hold 8-bit samples divided by 255, so color
// channels lie in [0,1]. Plane.Gray expects samples in [0,255]; UnitGray and
// StretchGray map other ranges onto it.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached images are shared and must not
// be modified. Everything else is stateless.
package imaging
