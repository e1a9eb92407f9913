package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/saliency-mcp/internal/colorspace"
)

func toolsByName() map[string]Tool {
	m := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		m[tool.Name] = tool
	}
	return m
}

func TestGetToolDefinitions(t *testing.T) {
	expected := []string{
		"saliency_aim",
		"saliency_backproject",
		"saliency_convert",
		"saliency_color_spaces",
		"image_load",
		"image_dimensions",
	}

	tools := toolsByName()
	assert.Len(t, tools, len(expected))
	for _, name := range expected {
		assert.Contains(t, tools, name)
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Name)
			assert.NotEmpty(t, tool.Description)
			require.NotNil(t, tool.InputSchema)
			assert.Equal(t, "object", tool.InputSchema["type"])

			_, ok := tool.InputSchema["properties"].(map[string]interface{})
			assert.True(t, ok, "properties should be a map")
		})
	}
}

func TestToolDefinitions_RequiredArguments(t *testing.T) {
	tests := map[string][]string{
		"saliency_aim":         {"path"},
		"saliency_backproject": {"path", "template_path", "color_space"},
		"saliency_convert":     {"path", "color_space"},
		"image_load":           {"path"},
		"image_dimensions":     {"path"},
	}

	tools := toolsByName()
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			required, ok := tools[name].InputSchema["required"].([]string)
			require.True(t, ok)
			assert.Equal(t, want, required)

			props := tools[name].InputSchema["properties"].(map[string]interface{})
			for _, r := range required {
				assert.Contains(t, props, r)
			}
		})
	}
}

func TestToolDefinitions_ColorSpaceEnum(t *testing.T) {
	tools := toolsByName()
	for _, name := range []string{"saliency_backproject", "saliency_convert"} {
		props := tools[name].InputSchema["properties"].(map[string]interface{})
		cs := props["color_space"].(map[string]interface{})
		assert.Equal(t, colorspace.Names(), cs["enum"], name)
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"saliency_aim", "scale_factor", 0.5},
		{"saliency_aim", "percentile", 0},
		{"saliency_backproject", "num_bins", 128},
		{"saliency_backproject", "normalize", false},
		{"saliency_convert", "channel", 0},
		{"saliency_convert", "normalize", true},
	}

	tools := toolsByName()
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.param, func(t *testing.T) {
			props := tools[tt.tool].InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.want, param["default"])
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(DefaultConfig())
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	require.True(t, ok)
	assert.Len(t, tools, len(GetToolDefinitions()))
}
