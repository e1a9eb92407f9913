// Package colorspace re-expresses RGB images in one of twenty color representations.
//
// Every conversion starts from 8-bit samples scaled to [0,1] and produces one
// float plane per output channel with the spatial size of the input. The
// supported spaces, in their stable order, are:
//
//	RGB HSV Lab Luv HSI HSL CMY C1C2C3 COPP YCrCb
//	YIQ XYZ UVW YUV OPP NOPP xyY rg YES I1I2I3
//
// COPP, NOPP and rg have two channels; all others have three.
//
// # Normalization
//
// With normalize set, each channel is mapped into [0,1] using the theoretical
// bounds of its transform (hue divided by 360, L divided by 100, opponent
// channels re-centered on their analytic extremes, XYZ divided by the D65
// reference white). Normalized output is what histogram backprojection expects.
//
// # Degenerate Pixels
//
// Transforms that divide by an intensity (HSI saturation, NOPP, rg, xyY) return
// 0 for black pixels instead of NaN.
package colorspace
