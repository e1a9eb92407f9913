// Package server implements the MCP (Model Context Protocol) server for saliency tools.
//
// This package exposes the saliency engine as JSON-RPC 2.0 tools so that MCP
// clients can ask where an image draws attention, or where a known color
// distribution appears in it.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Saliency:
//   - saliency_aim: Bottom-up AIM map with optional percentile cutoff
//   - saliency_backproject: Top-down color backprojection mask
//
// Color Spaces:
//   - saliency_convert: One channel of a color space conversion
//   - saliency_color_spaces: The supported spaces in their stable order
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Map results are returned as base64 PNG together with a name describing how
// they were made (AIMSaliency_p<percentile>, bpImg_c<space>_b<bins>) and a
// sequence number that increases with every map the server produces.
//
// # Configuration
//
// Defaults for omitted arguments come from Config, normally loaded from the
// environment with LoadConfig:
//
//	SALIENCY_BASIS_PATH   basis artifact for saliency_aim
//	SALIENCY_NUM_BINS     backprojection bins per channel (128)
//	SALIENCY_SCALE        AIM resize factor (0.5)
//	SALIENCY_PERCENTILE   AIM percentile cutoff (0)
//	SALIENCY_MCP_LOG_LEVEL=debug logs tool timings
//
// # Caching
//
// Input images are cached by path for the lifetime of the server. Basis
// artifacts are cached by the basis store, which reads each file once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
