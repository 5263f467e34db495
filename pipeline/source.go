package pipeline

import (
	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/record"
)

// A Transformer turns feed rows of a given record type into records.
type Transformer interface {
	// FieldCount is the number of fields rows are padded to.
	FieldCount() int
	// Transform builds the record for a row.  It must cope with fields
	// that are missing or shorter than expected.
	Transform(feed.Row) *record.Object
}

// A Combiner is a Transformer whose consecutive records can be merged.
type Combiner interface {
	Transformer
	// Same reports whether a and b describe the same entity.
	Same(a, b *record.Object) bool
	// MergeKey names the list field that is merged.
	MergeKey() string
}

// A RecordSource yields records until it returns io.EOF.
type RecordSource interface {
	Next() (*record.Object, error)
}

type rowSource struct {
	rows        *feed.Reader
	transformer Transformer
	count       int
}

var _ RecordSource = &rowSource{}

func (s *rowSource) Next() (*record.Object, error) {
	row, err := s.rows.Next()
	if err != nil {
		return nil, err
	}
	s.count++
	return s.transformer.Transform(row), nil
}
