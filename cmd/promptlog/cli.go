package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/errors"
	"github.com/vd89/promptlog/internal/logfile"
	"github.com/vd89/promptlog/internal/pipeline"
	"github.com/vd89/promptlog/internal/source"
	"github.com/vd89/promptlog/internal/web"
)

// appDeps bundles the wired pipeline for CLI commands.
type appDeps struct {
	cfg     *config.Config
	coord   *pipeline.Coordinator
	writer  *logfile.Writer
	baseDir string
	logger  *slog.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *appDeps) *cli.App {
	app := &cli.App{
		Name:    "promptlog",
		Usage:   "Heuristic prompt capture and Markdown logging",
		Version: Version,
		Commands: []*cli.Command{
			enableCmd(deps),
			disableCmd(deps),
			logCmd(deps),
			inputCmd(deps),
			clipboardCmd(deps),
			openCmd(deps),
			checkCmd(deps),
			watchCmd(deps),
			webCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// enableCmd creates the enable command.
func enableCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "enable",
		Usage: "Enable prompt logging and persist the setting",
		Action: func(c *cli.Context) error {
			return setEnabled(deps, true)
		},
	}
}

// disableCmd creates the disable command.
func disableCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "disable",
		Usage: "Disable prompt logging and persist the setting",
		Action: func(c *cli.Context) error {
			return setEnabled(deps, false)
		},
	}
}

func setEnabled(deps *appDeps, enabled bool) error {
	deps.coord.SetEnabled(enabled)
	if err := config.Save(deps.baseDir, deps.cfg); err != nil {
		return outputError(errors.NewInternal(err))
	}
	return outputJSON(map[string]any{"enabled": enabled})
}

// logCmd creates the log command.
func logCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Log a prompt through the full pipeline (argument or stdin)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Where the text came from"},
			&cli.StringFlag{Name: "context", Aliases: []string{"c"}, Usage: "Surrounding text to record"},
		},
		Action: func(c *cli.Context) error {
			text, err := textArg(c)
			if err != nil {
				return outputError(err)
			}

			label := c.String("source")
			if label == "" {
				label = source.ManualLabel
			}

			result, err := deps.coord.Capture(pipeline.NewEvent(label, c.String("context"), text))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// inputCmd creates the input command.
func inputCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:      "input",
		Usage:     "Log typed input verbatim through the minimal path (argument or stdin)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Where the input was typed"},
		},
		Action: func(c *cli.Context) error {
			text, err := textArg(c)
			if err != nil {
				return outputError(err)
			}

			label := c.String("source")
			if label == "" {
				label = source.ManualLabel
			}

			result, err := deps.coord.CaptureInput(label, text)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// clipboardCmd creates the clipboard command.
func clipboardCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "clipboard",
		Usage: "Capture the current clipboard content once",
		Action: func(c *cli.Context) error {
			result, err := source.CaptureClipboard(deps.coord)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// openCmd creates the open command.
func openCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open today's log file in the system viewer",
		Action: func(c *cli.Context) error {
			path, err := deps.writer.EnsureFile(time.Now())
			if err != nil {
				return outputError(err)
			}
			if err := openPath(path); err != nil {
				return outputError(errors.NewInternal(err))
			}
			fmt.Println(path)
			return nil
		},
	}
}

// checkCmd creates the check command.
func checkCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Report the resolved log directory and whether it is writable",
		Action: func(c *cli.Context) error {
			info, err := deps.writer.CheckPath(time.Now())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(info)
		},
	}
}

// watchCmd creates the watch command.
func watchCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the clipboard and workspace documents until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Workspace folder to watch (default: current directory)"},
			&cli.BoolFlag{Name: "no-clipboard", Usage: "Skip clipboard polling"},
			&cli.BoolFlag{Name: "no-documents", Usage: "Skip document watching"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("no-clipboard") && c.Bool("no-documents") {
				return outputError(errors.NewInvalidRequest("nothing to watch: both sources disabled"))
			}

			root := c.String("dir")
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				root = cwd
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var wg sync.WaitGroup
			if !c.Bool("no-clipboard") {
				poller := source.NewClipboardPoller(deps.coord, deps.logger)
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = poller.Run(ctx)
				}()
			}
			if !c.Bool("no-documents") {
				watcher := source.NewDocumentWatcher(deps.coord, root, deps.cfg.IncludeContextLines, deps.logger)
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
						fmt.Fprintf(os.Stderr, "promptlog: document watch stopped: %v\n", err)
					}
				}()
			}

			fmt.Fprintf(os.Stderr, "Watching %s. Press Ctrl+C to stop.\n", root)
			<-ctx.Done()
			wg.Wait()
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve a local web viewer for the log files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8931, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(deps.writer, deps.cfg, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// textArg returns the prompt text from positional args, or from stdin when
// piped and no argument is given.
func textArg(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if stdinHasData() {
		text, err := readStdin()
		if err != nil {
			return "", errors.NewInternal(err)
		}
		if text != "" {
			return text, nil
		}
	}
	return "", errors.NewInvalidRequest("text is required (argument or stdin)")
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if logErr, ok := err.(*errors.LogError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", logErr.Code, logErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
