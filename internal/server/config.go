package server

import (
	"log"
	"math"
	"strconv"
)

// Environment variables read by LoadConfig.
const (
	EnvLogLevel   = "SALIENCY_MCP_LOG_LEVEL"
	EnvBasisPath  = "SALIENCY_BASIS_PATH"
	EnvNumBins    = "SALIENCY_NUM_BINS"
	EnvScale      = "SALIENCY_SCALE"
	EnvPercentile = "SALIENCY_PERCENTILE"
)

// Config holds the defaults applied when a tool call omits an argument.
type Config struct {
	// LogLevel enables debug logging when set to "debug".
	LogLevel string

	// BasisPath is the basis artifact used by saliency_aim when the request
	// has no basis_path.
	BasisPath string

	// NumBins is the per-channel bin count for backprojection.
	NumBins int

	// Scale is the resize factor AIM applies before filtering.
	Scale float64

	// Percentile is the cutoff applied to AIM maps.
	Percentile float64
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		NumBins:    128,
		Scale:      0.5,
		Percentile: 0,
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// LoadConfig builds a Config from environment lookups. getenv is normally
// os.Getenv. Unparseable or out-of-range values are logged and replaced by
// their defaults.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()
	cfg.LogLevel = getenv(EnvLogLevel)
	cfg.BasisPath = getenv(EnvBasisPath)

	if v := getenv(EnvNumBins); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("Ignoring %s=%q: want a positive integer", EnvNumBins, v)
		} else {
			cfg.NumBins = n
		}
	}

	if v := getenv(EnvScale); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > 0) || math.IsInf(f, 0) {
			log.Printf("Ignoring %s=%q: want a positive number", EnvScale, v)
		} else {
			cfg.Scale = f
		}
	}

	if v := getenv(EnvPercentile); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f >= 0 && f <= 100) {
			log.Printf("Ignoring %s=%q: want a number in [0,100]", EnvPercentile, v)
		} else {
			cfg.Percentile = f
		}
	}

	return cfg
}
