// Package basis loads the pre-trained filter banks used by AIM saliency.
//
// A basis is a stack of small square kernels learned offline, typically by ICA
// over natural image patches. This package only consumes such artifacts; it
// never trains them.
//
// # File Format
//
// An artifact is a flat little-endian array of float32 values:
//
//	numKernels kernelSize numChannels
//	w[c=0][k=0][row=0][col=0] ... w[c=C-1][k=K-1][row=S-1][col=S-1]
//
// The three header values are integers stored as floats. Weights are ordered by
// channel, then kernel, then row.
//
// # Caching
//
// Store keeps decoded bases for the lifetime of the process. Loading the same
// path from many goroutines reads the artifact once. Default returns the store
// shared by the service layer.
package basis
