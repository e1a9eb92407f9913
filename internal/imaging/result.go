package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"
)

// MapResult is a saliency map or converted channel ready to be returned to
// an MCP client.
type MapResult struct {
	// Name identifies what produced the map, e.g. "AIMSaliency_p95".
	Name string `json:"name"`

	// Seq is the per-server sequence number of the result.
	Seq uint64 `json:"seq"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// ImageBase64 is the map encoded as PNG.
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// OutputPath is set when the map was also written to disk.
	OutputPath string `json:"output_path,omitempty"`
}

// EncodeMap encodes img as a base64 PNG result.
//
// When outputPath is not empty the map is also saved there; the format
// follows the file extension.
func EncodeMap(name string, img image.Image, outputPath string) (*MapResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if outputPath != "" {
		if err := imaging.Save(img, outputPath); err != nil {
			return nil, fmt.Errorf("failed to save %s to %s: %w", name, outputPath, err)
		}
	}

	bounds := img.Bounds()
	return &MapResult{
		Name:        name,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		OutputPath:  outputPath,
	}, nil
}

// StretchGray linearly maps the range of p onto 0..255. A constant plane
// becomes black.
func StretchGray(p *Plane) *image.Gray {
	out := p.Clone()
	if len(out.Pix) == 0 {
		return out.Gray()
	}

	lo, hi := floats.Min(out.Pix), floats.Max(out.Pix)
	if hi == lo {
		floats.Scale(0, out.Pix)
		return out.Gray()
	}
	floats.AddConst(-lo, out.Pix)
	floats.Scale(255/(hi-lo), out.Pix)
	return out.Gray()
}

// UnitGray maps samples in [0,1] onto 0..255. Values outside the range
// saturate.
func UnitGray(p *Plane) *image.Gray {
	out := p.Clone()
	floats.Scale(255, out.Pix)
	return out.Gray()
}
