// Package saliency computes visual saliency maps.
//
// Two families of maps are provided:
//
//   - Bottom-up: AIM (Attention based on Information Maximization) filters the
//     image with a learned basis and scores every pixel by the self-information
//     of its filter responses. Rare responses are salient.
//   - Top-down: Backproject marks the pixels whose color, in one of the spaces
//     of package colorspace, occurs in a template image.
//
// PercentileThreshold post-processes any map by zeroing values below an
// interpolated percentile of its distribution.
//
// # Pipeline Stages
//
// The AIM stages are exposed separately where they are useful on their own:
// FilterPlane correlates one plane with one kernel using a zero border, and
// CropInterior removes the border region the zero padding contaminated.
//
// # Concurrency
//
// All functions are safe for concurrent use. A basis is never modified, so one
// loaded basis can serve any number of simultaneous computations. AIM spreads
// its kernels over the available CPUs and joins before returning.
//
// # Errors
//
// Failures are reported with the sentinels ErrInvalidParameter and
// ErrShapeMismatch, or with colorspace.ErrUnknownColorSpace and
// basis.ErrCorruptBasis from the packages this one builds on. Compare them
// with errors.Is.
package saliency
