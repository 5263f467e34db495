package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/encoding/json"
	"github.com/arnodel/feedjson/internal/format"
	"github.com/arnodel/feedjson/record"
)

// ErrNotCombinable is returned when combine mode is asked of a transformer
// that does not implement Combiner.
var ErrNotCombinable = errors.New("transformer does not support combining")

// Stats describes one conversion.
type Stats struct {
	Rows      int // data rows read, header excluded
	Documents int // documents written
	Merged    int // records merged into a previous one
}

// A Converter converts feed input into JSONL for one record type.  A
// Converter holds no state between conversions and can be reused.
type Converter struct {
	transformer Transformer
	mode        Mode

	// Logger receives debug output.  slog.Default() is used if nil.
	Logger *slog.Logger
	// Colorizer is passed to the JSON writer.
	Colorizer *format.Colorizer
}

// NewConverter returns a Converter using t in the given mode.
func NewConverter(t Transformer, mode Mode) (*Converter, error) {
	if mode == Combine {
		if _, ok := t.(Combiner); !ok {
			return nil, ErrNotCombinable
		}
	}
	return &Converter{transformer: t, mode: mode}, nil
}

func (c *Converter) Mode() Mode {
	return c.mode
}

// Convert reads all of in and writes one document per output record to out.
// The context is checked between records.
func (c *Converter) Convert(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := feed.NewReader(in, c.transformer.FieldCount())
	if err != nil {
		return stats, err
	}
	if rows.HeaderSkipped() {
		logger.Debug("skipped header line")
	}

	source := &rowSource{rows: rows, transformer: c.transformer}
	var engine RecordSource
	var combiner *combineEngine
	if c.mode == Combine {
		combiner = newCombineEngine(source, c.transformer.(Combiner))
		engine = combiner
	} else {
		engine = &identityEngine{in: source}
	}

	writer := json.NewWriter(out)
	writer.SetColorizer(c.Colorizer)
	for {
		if err := ctx.Err(); err != nil {
			return c.stats(source, writer, combiner), err
		}
		var rec *record.Object
		rec, err = engine.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.stats(source, writer, combiner), err
		}
		if err := writer.Write(rec); err != nil {
			return c.stats(source, writer, combiner), fmt.Errorf("writing document %d: %w", writer.Count()+1, err)
		}
	}
	stats = c.stats(source, writer, combiner)
	logger.Debug("conversion done",
		slog.String("mode", c.mode.String()),
		slog.Int("rows", stats.Rows),
		slog.Int("documents", stats.Documents),
		slog.Int("merged", stats.Merged))
	return stats, nil
}

func (c *Converter) stats(source *rowSource, writer *json.Writer, combiner *combineEngine) Stats {
	stats := Stats{Rows: source.count, Documents: writer.Count()}
	if combiner != nil {
		stats.Merged = combiner.merged
	}
	return stats
}
