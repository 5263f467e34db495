package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/encoding/json"
	"github.com/arnodel/feedjson/internal/batch"
	"github.com/arnodel/feedjson/internal/format"
	"github.com/arnodel/feedjson/pipeline"
	"github.com/arnodel/feedjson/schema"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see streamStdio).
	signal.Ignore(syscall.SIGPIPE)

	// Parse the command line arguments
	var configPath string
	var combine bool
	var keepInput bool
	var watch bool
	var schedule string
	var metricsAddr string
	var logLevel string
	var logFormat string
	var colorMode string
	var raw bool

	flag.Usage = printUsage

	flag.StringVar(&configPath, "config", os.Getenv("FEEDJSON_CONFIG"), "YAML config file (default $FEEDJSON_CONFIG)")
	flag.BoolVar(&combine, "combine", false, "merge consecutive records of the same patient into one document")
	flag.BoolVar(&keepInput, "keep", false, "do not remove input files after conversion")
	flag.BoolVar(&watch, "watch", false, "keep running and convert files as they appear in IN_DIR")
	flag.StringVar(&schedule, "schedule", "", "keep running and sweep IN_DIR on this cron schedule")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (with -watch or -schedule)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&logFormat, "log-format", "text", "log format: text, json")
	flag.StringVar(&colorMode, "color", "auto", "colorize output when streaming to stdout: auto, always, never")
	flag.BoolVar(&raw, "raw", false, "with - -, output the tokenized rows instead of records")

	flag.Parse()

	cfg, err := batch.LoadConfig(configPath)
	if err != nil {
		fatalError("%s\n", err)
	}

	// Positional arguments and explicit flags override the config.
	switch args := flag.Args(); len(args) {
	case 0:
	case 3:
		cfg.Type, cfg.InDir, cfg.OutDir = args[0], args[1], args[2]
	default:
		printUsage()
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "combine":
			cfg.Combine = combine
		case "keep":
			cfg.KeepInput = keepInput
		case "watch":
			cfg.Watch = watch
		case "schedule":
			cfg.Schedule = schedule
		case "metrics-addr":
			cfg.MetricsAddr = metricsAddr
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-format":
			cfg.Log.Format = logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n\n", err)
		printUsage()
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fatalError("%s\n", err)
	}

	registry := schema.NewRegistry()
	if _, err := registry.Lookup(cfg.Type); err != nil {
		fatalError("Invalid transformation type %q.\n\nSupported types:\n%s\n", cfg.Type, strings.Join(registry.Names(), ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InDir == "-" && cfg.OutDir == "-" {
		colorizer, err := chooseColorizer(colorMode)
		if err != nil {
			fatalError("%s\n", err)
		}
		if err := streamStdio(ctx, registry, cfg, raw, colorizer, logger); err != nil {
			fatalError("error: %s\n", err)
		}
		return
	}
	if raw {
		fatalError("-raw can only be used with - - (standard input and output)\n")
	}

	var metrics *batch.Metrics
	if cfg.MetricsAddr != "" {
		metrics = batch.NewMetrics()
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	runner, err := batch.NewRunner(*cfg, registry, logger, metrics)
	if err != nil {
		fatalError("%s\n", err)
	}

	switch {
	case cfg.Watch:
		err = runner.Watch(ctx)
	case cfg.Schedule != "":
		err = runner.Schedule(ctx, cfg.Schedule)
	default:
		_, err = runner.Sweep(ctx)
	}
	if err != nil {
		fatalError("%s\n", err)
	}
}

// streamStdio converts standard input to standard output.  With raw set the
// rows are written as they were tokenized.
func streamStdio(ctx context.Context, registry *schema.Registry, cfg *batch.Config, raw bool, colorizer *format.Colorizer, logger *slog.Logger) error {
	typ, err := registry.Lookup(cfg.Type)
	if err != nil {
		return err
	}

	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)

	if raw {
		err = dumpRows(os.Stdin, out, typ.FieldCount(), colorizer)
	} else {
		err = convert(ctx, typ, cfg.Combine, os.Stdin, out, colorizer, logger)
	}
	if err == nil {
		// JSONL has no trailing new line but a terminal prompt wants one.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			_, err = out.WriteString("\n")
		}
	}
	if err == nil {
		err = out.Flush()
	}
	if errors.Is(err, syscall.EPIPE) {
		// stdout is a pipe and something closed it (e.g. 'head' or 'less').
		// In this case we don't want to complain.
		return nil
	}
	return err
}

func convert(ctx context.Context, typ schema.Type, combine bool, in io.Reader, out io.Writer, colorizer *format.Colorizer, logger *slog.Logger) error {
	mode := pipeline.Identity
	if combine {
		mode = pipeline.Combine
	}
	converter, err := pipeline.NewConverter(typ, mode)
	if err != nil {
		return err
	}
	converter.Logger = logger
	converter.Colorizer = colorizer
	_, err = converter.Convert(ctx, in, out)
	return err
}

func dumpRows(in io.Reader, out io.Writer, fieldCount int, colorizer *format.Colorizer) error {
	rows, err := feed.NewReader(in, fieldCount)
	if err != nil {
		return err
	}
	writer := json.NewWriter(out)
	writer.SetColorizer(colorizer)
	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
}

func chooseColorizer(mode string) (*format.Colorizer, error) {
	switch mode {
	case "always":
		return &defaultColorizer, nil
	case "never":
		return nil, nil
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return &defaultColorizer, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid -color value: %q (use auto, always, or never)", mode)
	}
}

func newLogger(cfg batch.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler), nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: feedjson [flags] TYPE IN_DIR OUT_DIR

Convert every .csv (or .csv.gz) feed file in IN_DIR into a JSONL file with
the same base name and a .json (or .json.gz) extension in OUT_DIR.  Input
files are removed once converted.

TYPE is one of: %s

Use - for both IN_DIR and OUT_DIR to convert standard input to standard
output.  TYPE, IN_DIR and OUT_DIR may instead come from the config file or
the FEEDJSON_TYPE, FEEDJSON_IN_DIR and FEEDJSON_OUT_DIR variables, in which
case they are omitted.

Flags:
`, strings.Join(schema.NewRegistry().Names(), ", "))
	flag.PrintDefaults()
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg, args...)
	os.Exit(1)
}

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Yellow     = []byte("\033[33m")
	White      = []byte("\033[37m")
	Green      = []byte("\033[32m")
	DimWhite   = []byte("\033[37;2m")
	BrightBlue = []byte("\033[34;1m")
)

var defaultColorizer = format.Colorizer{
	ScalarColorCodes: [4][]byte{DimWhite, Yellow, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}
