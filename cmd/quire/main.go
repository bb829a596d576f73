// Package main is the entry point for the quire editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/quire/internal/app"
	"github.com/dshills/quire/internal/config"
	"github.com/dshills/quire/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp is returned by parseFlags after printing usage or version.
var errHelp = errors.New("help requested")

// cliOptions holds the parsed command line.
type cliOptions struct {
	ConfigPath string
	LogLevel   string
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, logCloser, err := app.OpenLog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	logger.Info("starting quire %s (commit %s)", version, commit)

	application, err := app.New(app.Options{
		File:    opts.File,
		Version: version,
		Config:  &cfg,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	go func() {
		sig, ok := <-signals
		if !ok {
			return
		}
		logger.Warn("received %v", sig)
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		logger.Error("session failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("Goodbye.")
	return 0
}

// loadConfig resolves settings and applies command line overrides.
func loadConfig(opts cliOptions) (config.Config, error) {
	var loadOpts []config.Option
	if opts.ConfigPath != "" {
		loadOpts = append(loadOpts, config.WithPath(opts.ConfigPath))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return config.Config{}, app.WrapError(err, "loading configuration")
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, app.WrapError(err, "invalid -log-level")
		}
	}
	return cfg, nil
}

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("quire", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error, none)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "quire - a small terminal text editor\n\n")
		fmt.Fprintf(stderr, "Usage: quire [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n")
		fmt.Fprintf(stderr, "  Ctrl-S    Save\n")
		fmt.Fprintf(stderr, "  Ctrl-Q    Quit\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errHelp
	}

	if showVersion {
		fmt.Fprintf(stdout, "quire %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		fmt.Fprintf(stderr, "Error: expected at most one file, got %d\n", fs.NArg())
		fs.Usage()
		return opts, errors.New("too many arguments")
	}

	return opts, nil
}
