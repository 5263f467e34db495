package feed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// HeaderPrefix marks a header line.  It is matched case-insensitively
// against the first bytes of the input.
const HeaderPrefix = "SEQ|"

// MaxLineSize is the longest line a Reader accepts.
const MaxLineSize = 16 * 1024 * 1024

// A Reader reads rows from feed input, one line at a time.  Lines end with
// "\n", "\r\n" or a lone "\r".
type Reader struct {
	scanner       *bufio.Scanner
	fieldCount    int
	headerSkipped bool
	line          int
}

// NewReader sets up a Reader on in.  If the input starts with a header line
// that line is consumed, otherwise the input is left untouched so the first
// line is read as data.
func NewReader(in io.Reader, fieldCount int) (*Reader, error) {
	buffered := bufio.NewReader(in)
	r := &Reader{
		scanner:    bufio.NewScanner(buffered),
		fieldCount: fieldCount,
	}
	r.scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	r.scanner.Split(scanLines)

	start, err := buffered.Peek(len(HeaderPrefix))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.EqualFold(string(start), HeaderPrefix) {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading header: %w", err)
			}
		}
		r.headerSkipped = true
		r.line++
	}
	return r, nil
}

// FieldCount returns the number of fields rows are padded to.
func (r *Reader) FieldCount() int {
	return r.fieldCount
}

// HeaderSkipped reports whether a header line was found and discarded.
func (r *Reader) HeaderSkipped() bool {
	return r.headerSkipped
}

// Line returns the 1-based line number of the last row returned by Next.
// A skipped header counts as line 1.
func (r *Reader) Line() int {
	return r.line
}

// Next reads and tokenizes the next line.  It returns io.EOF once the input
// is exhausted.
func (r *Reader) Next() (Row, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading line %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++
	return ParseLine(TrimLineTerminator(r.scanner.Text()), r.fieldCount), nil
}

// scanLines is a bufio.SplitFunc returning each line with its terminator.
// A final line without terminator is returned as is.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i+1], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i+2], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i+1], nil
		}
		// A '\r' at the end of the buffer may be followed by '\n'
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
