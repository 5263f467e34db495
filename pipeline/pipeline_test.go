package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyed builds {"key": field 0, "items": [field 1]} and merges on key.
type keyed struct{}

func (keyed) FieldCount() int  { return 2 }
func (keyed) MergeKey() string { return "items" }

func (keyed) Transform(row feed.Row) *record.Object {
	rec := record.NewObject()
	rec.SetString("key", row.At(0).First())
	rec.Set("items", record.NewList(record.String(row.At(1).First())))
	return rec
}

func (keyed) Same(a, b *record.Object) bool {
	ka, _ := a.GetString("key")
	kb, _ := b.GetString("key")
	return ka == kb
}

// plain cannot be combined.
type plain struct{}

func (plain) FieldCount() int { return 1 }

func (plain) Transform(row feed.Row) *record.Object {
	rec := record.NewObject()
	rec.SetString("v", row.At(0).First())
	return rec
}

func convert(t *testing.T, tr Transformer, mode Mode, input string) (string, Stats) {
	t.Helper()
	c, err := NewConverter(tr, mode)
	require.NoError(t, err)
	var out bytes.Buffer
	stats, err := c.Convert(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	return out.String(), stats
}

func TestConvertIdentity(t *testing.T) {
	out, stats := convert(t, keyed{}, Identity, "SEQ|KEY|ITEM\nk1,a\nk1,b\nk2,c\n")
	assert.Equal(t, strings.Join([]string{
		`{"key": "k1", "items": ["a"]}`,
		`{"key": "k1", "items": ["b"]}`,
		`{"key": "k2", "items": ["c"]}`,
	}, "\n"), out)
	assert.Equal(t, Stats{Rows: 3, Documents: 3}, stats)
}

func TestConvertCombine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		merged   int
	}{
		{
			name:  "runs are merged",
			input: "k1,a\nk1,b\nk2,c\nk1,d\n",
			expected: []string{
				`{"key": "k1", "items": ["a", "b"]}`,
				`{"key": "k2", "items": ["c"]}`,
				`{"key": "k1", "items": ["d"]}`,
			},
			merged: 1,
		},
		{
			name:     "single record",
			input:    "k1,a\n",
			expected: []string{`{"key": "k1", "items": ["a"]}`},
		},
		{
			name:  "long run",
			input: "k,1\nk,2\nk,3\nk,4\n",
			expected: []string{
				`{"key": "k", "items": ["1", "2", "3", "4"]}`,
			},
			merged: 3,
		},
		{
			name:  "no merge across entities",
			input: "a,1\nb,2\n",
			expected: []string{
				`{"key": "a", "items": ["1"]}`,
				`{"key": "b", "items": ["2"]}`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats := convert(t, keyed{}, Combine, tt.input)
			assert.Equal(t, strings.Join(tt.expected, "\n"), out)
			assert.Equal(t, len(tt.expected), stats.Documents)
			assert.Equal(t, tt.merged, stats.Merged)
		})
	}
}

func TestConvertNoRecords(t *testing.T) {
	for _, mode := range []Mode{Identity, Combine} {
		for _, input := range []string{"", "SEQ|KEY|ITEM\n"} {
			t.Run(mode.String(), func(t *testing.T) {
				out, stats := convert(t, keyed{}, mode, input)
				assert.Equal(t, "", out)
				assert.Equal(t, Stats{}, stats)
			})
		}
	}
}

func TestNewConverterNotCombinable(t *testing.T) {
	_, err := NewConverter(plain{}, Combine)
	assert.ErrorIs(t, err, ErrNotCombinable)

	c, err := NewConverter(plain{}, Identity)
	require.NoError(t, err)
	assert.Equal(t, Identity, c.Mode())
}

func TestConvertCancelled(t *testing.T) {
	c, err := NewConverter(plain{}, Identity)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err = c.Convert(ctx, strings.NewReader("a\nb\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "", out.String())
}

type errReader struct{}

var errRead = errors.New("read failed")

func (errReader) Read([]byte) (int, error) {
	return 0, errRead
}

func TestConvertReadError(t *testing.T) {
	c, err := NewConverter(plain{}, Identity)
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), errReader{}, io.Discard)
	assert.ErrorIs(t, err, errRead)
}

// countingSource checks the engine never reads past the end of its input.
type countingSource struct {
	records []*record.Object
	calls   int
}

func (s *countingSource) Next() (*record.Object, error) {
	s.calls++
	if len(s.records) == 0 {
		return nil, io.EOF
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

func TestCombineEngineStopsAtEOF(t *testing.T) {
	row := func(k, v string) *record.Object {
		return keyed{}.Transform(feed.Row{{{k}}, {{v}}})
	}
	src := &countingSource{records: []*record.Object{row("a", "1"), row("a", "2")}}
	engine := newCombineEngine(src, keyed{})

	rec, err := engine.Next()
	require.NoError(t, err)
	items, _ := rec.GetList("items")
	assert.Equal(t, 2, items.Len())

	_, err = engine.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = engine.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 3, src.calls)
}

func TestMerge(t *testing.T) {
	withList := func(items ...string) *record.Object {
		rec := record.NewObject()
		list := record.NewList()
		for _, item := range items {
			list.Append(record.String(item))
		}
		rec.Set("l", list)
		return rec
	}

	dest := withList("a")
	assert.True(t, Merge(dest, withList("b", "c"), "l"))
	l, _ := dest.GetList("l")
	assert.Equal(t, []record.Value{record.String("a"), record.String("b"), record.String("c")}, l.Items())

	assert.False(t, Merge(dest, record.NewObject(), "l"))
	assert.False(t, Merge(record.NewObject(), withList("x"), "l"))
	l, _ = dest.GetList("l")
	assert.Equal(t, 3, l.Len())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "identity", Identity.String())
	assert.Equal(t, "combine", Combine.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
