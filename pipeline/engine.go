package pipeline

import (
	"errors"
	"io"

	"github.com/arnodel/feedjson/record"
)

// Mode selects how records become documents.
type Mode int

const (
	// Identity writes one document per record.
	Identity Mode = iota
	// Combine merges runs of consecutive records describing the same entity.
	Combine
)

func (m Mode) String() string {
	switch m {
	case Identity:
		return "identity"
	case Combine:
		return "combine"
	default:
		return "unknown"
	}
}

// identityEngine passes records through unchanged.
type identityEngine struct {
	in RecordSource
}

func (e *identityEngine) Next() (*record.Object, error) {
	return e.in.Next()
}

// combineEngine holds one pending record.  Each new record is either merged
// into it or causes it to be emitted.  Only adjacent records are compared,
// so input must be grouped by entity.
type combineEngine struct {
	in       RecordSource
	same     func(a, b *record.Object) bool
	mergeKey string

	pending *record.Object
	done    bool
	merged  int
}

func newCombineEngine(in RecordSource, c Combiner) *combineEngine {
	return &combineEngine{
		in:       in,
		same:     c.Same,
		mergeKey: c.MergeKey(),
	}
}

func (e *combineEngine) Next() (*record.Object, error) {
	if e.done {
		return nil, io.EOF
	}
	if e.pending == nil {
		rec, err := e.in.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.done = true
			}
			return nil, err
		}
		e.pending = rec
	}
	for {
		rec, err := e.in.Next()
		if errors.Is(err, io.EOF) {
			e.done = true
			return e.take(nil), nil
		}
		if err != nil {
			return nil, err
		}
		if e.same(e.pending, rec) && Merge(e.pending, rec, e.mergeKey) {
			e.merged++
			continue
		}
		return e.take(rec), nil
	}
}

func (e *combineEngine) take(next *record.Object) *record.Object {
	out := e.pending
	e.pending = next
	return out
}

// Merge appends the items of the list under key in src to the list under
// key in dest.  It returns false, leaving dest alone, if either record lacks
// that list.
func Merge(dest, src *record.Object, key string) bool {
	to, ok := dest.GetList(key)
	if !ok {
		return false
	}
	from, ok := src.GetList(key)
	if !ok {
		return false
	}
	to.Append(from.Items()...)
	return true
}
