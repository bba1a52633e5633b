package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/logfile"
	"github.com/vd89/promptlog/internal/mcp"
	"github.com/vd89/promptlog/internal/pipeline"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"enable": true, "disable": true, "log": true, "input": true,
	"clipboard": true, "open": true, "check": true,
	"watch": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                                 _   _
  _ __ _ __ ___ _ __ ___  _ __ | |_| | ___   __ _
 | '_ \ '__/ _ \ '_ ' _ \| '_ \| __| |/ _ \ / _' |
 | |_) | | (_) | | | | | | |_) | |_| | (_) | (_| |
 | .__/|_|\___/|_| |_| |_| .__/ \__|_|\___/ \__, |
 |_|                     |_|                |___/

  Heuristic prompt capture and Markdown logging

  Usage: promptlog <command> [options]
         promptlog --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version without touching config or the log dir
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".promptlog")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	workspaceRoot, err := os.Getwd()
	if err != nil {
		workspaceRoot = ""
	}

	writer := logfile.NewWriter(logfile.Options{
		WorkspaceRoot: workspaceRoot,
		HomeDir:       homeDir,
		DirOverride:   cfg.LogFilePath,
		Logger:        logger,
	})

	notifier := pipeline.NotifierFunc(func(message string) {
		fmt.Fprintf(os.Stderr, "promptlog: %s\n", message)
	})
	coord := pipeline.New(cfg, writer, notifier, logger)

	deps := &appDeps{
		cfg:     cfg,
		coord:   coord,
		writer:  writer,
		baseDir: baseDir,
		logger:  logger,
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'promptlog --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	handlers := mcp.NewHandlers(coord, cfg, writer, baseDir)
	if err := mcp.Run(handlers, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
