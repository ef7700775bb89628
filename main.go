package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/codestudio/internal/app"
	"github.com/petervdpas/codestudio/internal/config"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

var log = logging.Logger("codestudio")

var (
	showHelp = flag.Bool("h", false, "Show help")
	version  = flag.Bool("version", false, "Show version")
)

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("CodeStudio v%s\n", appVersion)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()

	// No arguments - run desktop UI
	if len(args) == 0 {
		runDesktopApp()
		return
	}

	switch command := args[0]; command {
	case "serve":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: serve command requires directory path")
			fmt.Fprintln(os.Stderr, "Usage: codestudio serve <workspace-directory>")
			os.Exit(1)
		}
		runCLIServe(args[1])

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		fmt.Fprintln(os.Stderr)
		showUsage()
		os.Exit(1)
	}
}

func runDesktopApp() {
	a := NewApp()

	err := wails.Run(&options.App{
		Title:  "CodeStudio",
		Width:  1280,
		Height: 820,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:  a.startup,
		OnShutdown: a.shutdown,
		Bind:       []any{a},
	})
	if err != nil {
		log.Fatal(err)
	}
}

func runCLIServe(dirArg string) {
	absDir, err := filepath.Abs(dirArg)
	if err != nil {
		log.Fatalf("Invalid workspace directory: %v", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		log.Fatalf("Cannot create workspace directory: %v", err)
	}

	cfgPath := filepath.Join(absDir, config.FileName)
	cfg, created, err := config.Ensure(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	printBanner(absDir, cfgPath, cfg, created)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Options{
		Dir:     absDir,
		CfgPath: cfgPath,
		Cfg:     cfg,
		Ready: func(url string) {
			fmt.Printf("Workspace ready: %s\n", url)
		},
	}); err != nil {
		log.Fatalf("Workspace failed: %v", err)
	}
	fmt.Println("Stopped.")
}

func showUsage() {
	fmt.Println("CodeStudio - a small IDE in your browser")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  codestudio                    Run desktop application (default)")
	fmt.Println("  codestudio serve <directory>  Serve a workspace to the browser")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve <directory>")
	fmt.Println("        Start the workspace server without the desktop window.")
	fmt.Printf("        The directory holds %s (created with defaults if missing)\n", config.FileName)
	fmt.Println("        and the recent-files list.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h        Show this help message")
	fmt.Println("  -version  Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  codestudio serve ./workspaces/scratch")
}

func printBanner(dir, cfgPath string, cfg config.Config, created bool) {
	fmt.Println("╔════════════════════════════════════════════════════════╗")
	fmt.Println("║                      CodeStudio                        ║")
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Workspace:   %s\n", dir)
	if created {
		fmt.Printf("Config File: %s (new, defaults)\n", cfgPath)
	} else {
		fmt.Printf("Config File: %s\n", cfgPath)
	}
	_, url, _ := app.NormalizeLocalViewer(cfg.Viewer.HTTPAddr)
	fmt.Printf("Viewer:      %s\n", url)
	fmt.Printf("Executors:   %v\n", cfg.Runner.Languages)
	fmt.Println()
	fmt.Println("Starting... (Press Ctrl+C to stop)")
	fmt.Println("────────────────────────────────────────────────────────")
	fmt.Println()
}
