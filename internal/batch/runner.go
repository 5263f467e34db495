package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arnodel/feedjson/pipeline"
	"github.com/arnodel/feedjson/schema"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

const (
	feedExt     = ".csv"
	feedGzipExt = ".csv.gz"
	jsonExt     = ".json"
	jsonGzipExt = ".json.gz"
)

// A Runner converts the feed files of one directory.
type Runner struct {
	cfg       Config
	typeName  string
	converter *pipeline.Converter
	logger    *slog.Logger
	metrics   *Metrics

	// Serializes sweeps started by the watcher or the scheduler.
	mu sync.Mutex
}

// NewRunner checks cfg and resolves its record type in registry.  metrics
// may be nil.
func NewRunner(cfg Config, registry *schema.Registry, logger *slog.Logger, metrics *Metrics) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	typ, err := registry.Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	mode := pipeline.Identity
	if cfg.Combine {
		mode = pipeline.Combine
	}
	converter, err := pipeline.NewConverter(typ, mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("type", typ.Name()))
	converter.Logger = logger
	return &Runner{
		cfg:       cfg,
		typeName:  typ.Name(),
		converter: converter,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// SweepResult summarises a sweep.
type SweepResult struct {
	RunID     string
	Converted []string // input file names that were converted
	Failed    []string // input file names whose conversion failed
	Stats     pipeline.Stats
}

// Sweep converts every feed file currently in the input directory.  A file
// that fails is logged and left in place and the sweep moves on to the next
// one.  The returned error joins the errors of all failed files.
func (r *Runner) Sweep(ctx context.Context) (SweepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := SweepResult{RunID: uuid.NewString()}
	logger := r.logger.With(slog.String("run_id", result.RunID))
	start := time.Now()
	defer func() { r.metrics.observeSweep(time.Since(start)) }()

	names, err := r.pending()
	if err != nil {
		return result, err
	}
	if len(names) == 0 {
		logger.Debug("nothing to convert", slog.String("dir", r.cfg.InDir))
		return result, nil
	}

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		stats, err := r.ConvertFile(ctx, name)
		r.metrics.observeFile(r.typeName, stats, err)
		result.Stats.Rows += stats.Rows
		result.Stats.Documents += stats.Documents
		result.Stats.Merged += stats.Merged
		if err != nil {
			logger.Error("conversion failed", slog.String("file", name), slog.Any("error", err))
			result.Failed = append(result.Failed, name)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		logger.Info("converted",
			slog.String("file", name),
			slog.Int("rows", stats.Rows),
			slog.Int("documents", stats.Documents))
		result.Converted = append(result.Converted, name)
	}
	logger.Info("sweep done",
		slog.Int("converted", len(result.Converted)),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("elapsed", time.Since(start)))
	return result, errors.Join(errs...)
}

// pending lists the feed files of the input directory in name order.
func (r *Runner) pending() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.InDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.cfg.InDir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsFeedFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// IsFeedFile reports whether name has a feed file extension.
func IsFeedFile(name string) bool {
	return strings.HasSuffix(name, feedExt) || strings.HasSuffix(name, feedGzipExt)
}

// OutputName returns the name of the JSONL file written for a feed file:
// the same base name with a JSON extension, keeping gzip compression.
func OutputName(name string) string {
	if base, ok := strings.CutSuffix(name, feedGzipExt); ok {
		return base + jsonGzipExt
	}
	return strings.TrimSuffix(name, feedExt) + jsonExt
}

// ConvertFile converts one file of the input directory.  The output is
// written to a temporary file that is renamed into place once complete.
// The input is removed afterwards unless KeepInput is set.
func (r *Runner) ConvertFile(ctx context.Context, name string) (stats pipeline.Stats, err error) {
	src := filepath.Join(r.cfg.InDir, name)
	dst := filepath.Join(r.cfg.OutDir, OutputName(name))
	compressed := strings.HasSuffix(name, feedGzipExt)

	in, err := os.Open(src)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	var reader io.Reader = in
	if compressed {
		zr, err := gzip.NewReader(in)
		if err != nil {
			return stats, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		reader = zr
	}

	tmp, err := os.CreateTemp(r.cfg.OutDir, "."+OutputName(name)+".*.tmp")
	if err != nil {
		return stats, err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	var writer io.Writer = tmp
	var zw *gzip.Writer
	if compressed {
		zw = gzip.NewWriter(tmp)
		writer = zw
	}

	stats, err = r.converter.Convert(ctx, reader, writer)
	if err != nil {
		return stats, err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return stats, fmt.Errorf("closing gzip stream: %w", err)
		}
	}
	if err = tmp.Close(); err != nil {
		return stats, err
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return stats, err
	}
	in.Close()
	if !r.cfg.KeepInput {
		if err = os.Remove(src); err != nil {
			return stats, fmt.Errorf("removing input: %w", err)
		}
	}
	return stats, nil
}
