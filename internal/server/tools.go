package server

import "github.com/ironsheep/saliency-mcp/internal/colorspace"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func colorSpaceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Color space name (case-sensitive)",
		"enum":        colorspace.Names(),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Saliency
		{
			Name:        "saliency_aim",
			Description: "Compute a bottom-up AIM saliency map: filter the image with a learned basis and score each pixel by the self-information of its responses. Bright pixels are visually rare. Returns a base64-encoded grayscale PNG with the input's dimensions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"basis_path": pathProperty(
						"Path to the basis artifact. Defaults to SALIENCY_BASIS_PATH"),
					"scale_factor": map[string]interface{}{
						"type":        "number",
						"description": "Resize factor applied before filtering (0 < scale). Smaller is faster. Default 0.5",
						"default":     0.5,
					},
					"percentile": map[string]interface{}{
						"type":        "number",
						"description": "Zero map values below this percentile (0-100). Default 0 keeps the whole map",
						"default":     0,
					},
					"output_path": pathProperty("Optional path to also save the map to (format from extension)"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "saliency_backproject",
			Description: "Compute a top-down saliency mask: mark every pixel whose color, in the chosen color space, occurs in a template image. Returns a base64-encoded binary PNG (255 = template color).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty("Absolute path to the image to search"),
					"template_path": pathProperty("Absolute path to the template image holding the target colors"),
					"color_space":   colorSpaceProperty(),
					"num_bins": map[string]interface{}{
						"type":        "integer",
						"description": "Histogram bins per channel. Negative keeps the server default (128)",
						"default":     128,
					},
					"normalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Divide each pixel by its intensity first so only chromaticity is compared. Default false",
						"default":     false,
					},
					"output_path": pathProperty("Optional path to also save the mask to (format from extension)"),
				},
				"required": []string{"path", "template_path", "color_space"},
			},
		},

		// Color Spaces
		{
			Name:        "saliency_convert",
			Description: "Convert an image to one of the supported color spaces and return a single channel as a grayscale PNG. Useful for choosing a color space for backprojection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty("Absolute path to the image file"),
					"color_space": colorSpaceProperty(),
					"channel": map[string]interface{}{
						"type":        "integer",
						"description": "0-based channel index. Default 0",
						"default":     0,
					},
					"normalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Map the channel to [0,1] with its theoretical bounds (true) or stretch its actual range (false). Default true",
						"default":     true,
					},
				},
				"required": []string{"path", "color_space"},
			},
		},
		{
			Name:        "saliency_color_spaces",
			Description: "List the supported color spaces in their stable order with their channel counts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and channel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
