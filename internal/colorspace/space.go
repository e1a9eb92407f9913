package colorspace

import (
	"errors"
	"fmt"
)

// ErrUnknownColorSpace is returned when a color space name is not one of Names().
var ErrUnknownColorSpace = errors.New("unknown color space")

// Space identifies one of the supported color representations.
//
// The numeric value of a Space is its position in Names() and is part of the
// external contract: callers refer to color spaces by name, and the
// name/index pairing must never change between releases. New variants may
// only be appended.
type Space int

// Supported color spaces, in their stable order.
const (
	RGB Space = iota
	HSV
	Lab
	Luv
	HSI
	HSL
	CMY
	C1C2C3
	COPP
	YCrCb
	YIQ
	XYZ
	UVW
	YUV
	OPP
	NOPP
	XyY
	Rg
	YES
	I1I2I3

	numSpaces
)

var names = [numSpaces]string{
	RGB:    "RGB",
	HSV:    "HSV",
	Lab:    "Lab",
	Luv:    "Luv",
	HSI:    "HSI",
	HSL:    "HSL",
	CMY:    "CMY",
	C1C2C3: "C1C2C3",
	COPP:   "COPP",
	YCrCb:  "YCrCb",
	YIQ:    "YIQ",
	XYZ:    "XYZ",
	UVW:    "UVW",
	YUV:    "YUV",
	OPP:    "OPP",
	NOPP:   "NOPP",
	XyY:    "xyY",
	Rg:     "rg",
	YES:    "YES",
	I1I2I3: "I1I2I3",
}

var byName = func() map[string]Space {
	m := make(map[string]Space, numSpaces)
	for i, n := range names {
		m[n] = Space(i)
	}
	return m
}()

// Names returns the ordered list of color space names.
// The index of a name in the returned slice equals its Space value.
func Names() []string {
	out := make([]string, numSpaces)
	copy(out, names[:])
	return out
}

// Parse resolves a color space name. Names are case-sensitive ("xyY" and "rg"
// are lower case by convention). Unrecognized names fail with ErrUnknownColorSpace.
func Parse(name string) (Space, error) {
	s, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColorSpace, name)
	}
	return s, nil
}

// Valid reports whether s is one of the defined variants.
func (s Space) Valid() bool {
	return s >= 0 && s < numSpaces
}

// String returns the canonical name of s.
func (s Space) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Space(%d)", int(s))
	}
	return names[s]
}

// Channels returns the number of output channels produced by a conversion to s.
func (s Space) Channels() int {
	switch s {
	case COPP, NOPP, Rg:
		return 2
	default:
		return 3
	}
}
