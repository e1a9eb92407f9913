package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/ironsheep/saliency-mcp/internal/colorspace"
	"github.com/ironsheep/saliency-mcp/internal/imaging"
	"github.com/ironsheep/saliency-mcp/internal/saliency"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "saliency_aim", "image_load").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("Tool %s failed after %v: %v", params.Name, time.Since(start), err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.debugf("Tool %s finished in %v", params.Name, time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for omitted parameters
//  3. Loads images from cache as needed
//  4. Calls the saliency, colorspace or imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Saliency
	case "saliency_aim":
		return s.handleSaliencyAIM(args)
	case "saliency_backproject":
		return s.handleSaliencyBackproject(args)

	// Color Spaces
	case "saliency_convert":
		return s.handleSaliencyConvert(args)
	case "saliency_color_spaces":
		return s.handleSaliencyColorSpaces()

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(args, v), "invalid arguments")
}

// mapResult encodes a map and gives it the next sequence number.
func (s *Server) mapResult(name string, m *image.Gray, outputPath string) (*imaging.MapResult, error) {
	res, err := imaging.EncodeMap(name, m, outputPath)
	if err != nil {
		return nil, err
	}
	res.Seq = s.nextSeq()
	return res, nil
}

// === Saliency Handlers ===

type saliencyAIMArgs struct {
	Path        string   `json:"path"`
	BasisPath   string   `json:"basis_path"`
	ScaleFactor *float64 `json:"scale_factor"`
	Percentile  *float64 `json:"percentile"`
	OutputPath  string   `json:"output_path"`
}

func (s *Server) handleSaliencyAIM(args json.RawMessage) (interface{}, error) {
	var a saliencyAIMArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	basisPath := a.BasisPath
	if basisPath == "" {
		basisPath = s.cfg.BasisPath
	}
	if basisPath == "" {
		return nil, fmt.Errorf("no basis_path given and %s is not set", EnvBasisPath)
	}
	scale := s.cfg.Scale
	if a.ScaleFactor != nil {
		scale = *a.ScaleFactor
	}
	percentile := s.cfg.Percentile
	if a.Percentile != nil {
		percentile = *a.Percentile
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	m, err := saliency.AIMFromPath(img, scale, basisPath, s.bases)
	if err != nil {
		return nil, errors.Wrap(err, "AIM saliency")
	}
	m, err = saliency.PercentileThreshold(m, percentile)
	if err != nil {
		return nil, errors.Wrap(err, "percentile threshold")
	}

	return s.mapResult(fmt.Sprintf("AIMSaliency_p%g", percentile), m, a.OutputPath)
}

type saliencyBackprojectArgs struct {
	Path         string `json:"path"`
	TemplatePath string `json:"template_path"`
	ColorSpace   string `json:"color_space"`
	NumBins      *int   `json:"num_bins"`
	Normalize    bool   `json:"normalize"`
	OutputPath   string `json:"output_path"`
}

func (s *Server) handleSaliencyBackproject(args json.RawMessage) (interface{}, error) {
	var a saliencyBackprojectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	// A negative bin count keeps the configured default.
	bins := s.cfg.NumBins
	if a.NumBins != nil && *a.NumBins >= 0 {
		bins = *a.NumBins
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.cache.Load(a.TemplatePath)
	if err != nil {
		return nil, errors.Wrap(err, "template")
	}

	m, err := saliency.BackprojectByName(img, tmpl, a.ColorSpace, bins, a.Normalize)
	if err != nil {
		return nil, errors.Wrap(err, "backprojection")
	}

	return s.mapResult(fmt.Sprintf("bpImg_c%s_b%d", a.ColorSpace, bins), m, a.OutputPath)
}

// === Color Space Handlers ===

type saliencyConvertArgs struct {
	Path       string `json:"path"`
	ColorSpace string `json:"color_space"`
	Channel    int    `json:"channel"`
	Normalize  *bool  `json:"normalize"`
}

func (s *Server) handleSaliencyConvert(args json.RawMessage) (interface{}, error) {
	var a saliencyConvertArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	normalize := true
	if a.Normalize != nil {
		normalize = *a.Normalize
	}

	space, err := colorspace.Parse(a.ColorSpace)
	if err != nil {
		return nil, err
	}
	if a.Channel < 0 || a.Channel >= space.Channels() {
		return nil, fmt.Errorf("channel %d out of range: %s has %d channels", a.Channel, space, space.Channels())
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	planes, err := colorspace.Convert(img, space, normalize)
	if err != nil {
		return nil, errors.Wrapf(err, "converting to %s", space)
	}

	var gray *image.Gray
	if normalize {
		gray = imaging.UnitGray(planes[a.Channel])
	} else {
		gray = imaging.StretchGray(planes[a.Channel])
	}

	return s.mapResult(fmt.Sprintf("%s_c%d", space, a.Channel), gray, "")
}

// ColorSpaceInfo describes one supported color space.
type ColorSpaceInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Channels int    `json:"channels"`
}

func (s *Server) handleSaliencyColorSpaces() (interface{}, error) {
	names := colorspace.Names()
	spaces := make([]ColorSpaceInfo, len(names))
	for i, name := range names {
		spaces[i] = ColorSpaceInfo{
			Index:    i,
			Name:     name,
			Channels: colorspace.Space(i).Channels(),
		}
	}
	return map[string]interface{}{
		"color_spaces": spaces,
	}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}
