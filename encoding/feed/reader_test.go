package feed

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestReaderHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		skipped bool
		rows    int
	}{
		{"header", "SEQ|A|B\na,b\n", true, 1},
		{"lowercase header", "seq|a|b\na,b\n", true, 1},
		{"no header", "a,b\nc,d\n", false, 2},
		{"header only", "SEQ|A|B\n", true, 0},
		{"header without newline", "SEQ|", true, 0},
		{"short input", "SEQ", false, 1},
		{"empty input", "", false, 0},
		{"prefix not at start", "1,SEQ|x\n", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input), 2)
			require.NoError(t, err)
			assert.Equal(t, tt.skipped, r.HeaderSkipped())
			assert.Len(t, readAll(t, r), tt.rows)
		})
	}
}

func TestReaderLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unix", "a\nb\nc\n"},
		{"windows", "a\r\nb\r\nc\r\n"},
		{"old mac", "a\rb\rc\r"},
		{"mixed", "a\r\nb\rc\n"},
		{"no final newline", "a\nb\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input), 1)
			require.NoError(t, err)
			assert.Equal(t, []Row{{{{"a"}}}, {{{"b"}}}, {{{"c"}}}}, readAll(t, r))
		})
	}
}

func TestReaderLineNumbers(t *testing.T) {
	r, err := NewReader(strings.NewReader("SEQ|X\na\nb\n"), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Line())
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Line())
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, r.Line())
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderPadsRows(t *testing.T) {
	r, err := NewReader(strings.NewReader("a\n"), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, r.FieldCount())
	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{{{"a"}}, {}, {}, {}}, rows[0])
}

func TestReaderNestedQuoting(t *testing.T) {
	input := "SEQ|H\n" + `1,a|b|c~d|e|f,d,e|"f"""~"a~"|"b|"|"c,"` + "\n"
	r, err := NewReader(strings.NewReader(input), 3)
	require.NoError(t, err)
	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{
		{{"1"}},
		{{"a", "b", "c"}, {"d", "e", "f"}},
		{{"d"}},
		{{"e", `f"`}, {"a~", "b|", "c,"}},
	}, rows[0])
}

// A line longer than the bufio default buffer must still be read whole.
func TestReaderLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	r, err := NewReader(strings.NewReader(long+"\nb\n"), 1)
	require.NoError(t, err)
	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, long, rows[0][0].First())
}
