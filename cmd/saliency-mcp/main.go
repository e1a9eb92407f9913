package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/saliency-mcp/internal/basis"
	"github.com/ironsheep/saliency-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("saliency-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("saliency-mcp - MCP server for visual saliency maps")
			fmt.Println()
			fmt.Println("Usage: saliency-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SALIENCY_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  SALIENCY_BASIS_PATH=<file>      Default AIM basis artifact")
			fmt.Println("  SALIENCY_NUM_BINS=<n>           Backprojection bins per channel (default 128)")
			fmt.Println("  SALIENCY_SCALE=<f>              AIM resize factor (default 0.5)")
			fmt.Println("  SALIENCY_PERCENTILE=<p>         AIM percentile cutoff (default 0)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := server.LoadConfig(os.Getenv)
	if cfg.Debug() {
		log.Printf("Saliency MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: basis=%q bins=%d scale=%g percentile=%g",
			cfg.BasisPath, cfg.NumBins, cfg.Scale, cfg.Percentile)
	}

	basis.Default().SetLogger(log.Default())

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
