// Package main is the entry point for the draftsmith editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/draftsmith/internal/app"
	"github.com/dshills/draftsmith/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// errExit reports that a flag such as -help or -version was handled and
// the program should exit successfully.
var errExit = errors.New("exit requested")

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errExit) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags builds the application options from the command-line
// arguments, excluding the program name.
func parseFlags(args []string, stdout, stderr io.Writer) (app.Options, error) {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flags := flag.NewFlagSet("draftsmith", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flags.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug mode")
	flags.BoolVar(&opts.Debug, "d", false, "Enable debug mode (shorthand)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")
	flags.BoolVar(&showVersion, "version", false, "Show version information")
	flags.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flags.BoolVar(&showHelp, "help", false, "Show help message")
	flags.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "draftsmith - markdown editor with live math previews\n\n")
		fmt.Fprintf(stderr, "Usage: draftsmith [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n")
		fmt.Fprintf(stderr, "  Ctrl-T  toggle light/dark theme\n")
		fmt.Fprintf(stderr, "  Ctrl-P  switch cursor-follow/all-spans policy\n")
		fmt.Fprintf(stderr, "  Ctrl-E  toggle all-spans overlays\n")
		fmt.Fprintf(stderr, "  Ctrl-Q  quit\n")
	}

	if err := flags.Parse(args); err != nil {
		return opts, err
	}

	if showHelp {
		flags.Usage()
		return opts, errExit
	}

	if showVersion {
		fmt.Fprintf(stdout, "draftsmith %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errExit
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}

	if flags.NArg() > 1 {
		return opts, fmt.Errorf("expected at most one file, got %d", flags.NArg())
	}
	if flags.NArg() == 1 {
		text, err := readText(flags.Arg(0))
		if err != nil {
			return opts, err
		}
		opts.Text = text
		opts.Filename = flags.Arg(0)
	}

	return opts, nil
}

// readText loads the initial document. A missing file starts empty.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", app.NewOperationError("load text", path, err)
	}
	return string(data), nil
}
