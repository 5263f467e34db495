package json

import (
	"bufio"
	"io"

	"github.com/arnodel/feedjson/internal/format"
	"github.com/arnodel/feedjson/token"
)

// A Document is anything that can describe itself as a token stream holding
// one JSON value.
type Document interface {
	WriteTokens(out token.WriteStream)
}

// A Writer writes documents as JSONL: documents are separated by a single
// new line and there is no new line after the last one.  Output is flushed
// after every document.
type Writer struct {
	encoder Encoder
	buf     *token.AccumulatorStream
	count   int
}

// NewWriter returns a Writer sending its output to w.
func NewWriter(w io.Writer) *Writer {
	out := bufio.NewWriter(w)
	return &Writer{
		encoder: Encoder{Printer: &format.DefaultPrinter{Writer: out, Flusher: out}},
		buf:     token.NewAccumulatorStream(),
	}
}

// SetColorizer makes the writer colour scalars.  A nil colorizer turns
// colours off.
func (w *Writer) SetColorizer(c *format.Colorizer) {
	w.encoder.Colorizer = c
}

// Write encodes doc on its own line.
func (w *Writer) Write(doc Document) (err error) {
	w.buf.Reset()
	doc.WriteTokens(w.buf)
	if w.count > 0 {
		if err := w.separate(); err != nil {
			return err
		}
	}
	if err := w.encoder.Encode(w.buf.ReadStream()); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of documents written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) separate() (err error) {
	defer format.CatchPrinterError(&err)
	w.encoder.NewLine()
	return nil
}

func (w *Writer) flush() (err error) {
	defer format.CatchPrinterError(&err)
	w.encoder.Flush()
	return nil
}
