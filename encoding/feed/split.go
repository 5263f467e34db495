package feed

import "strings"

const (
	FieldDelim    = ','
	RepeatDelim   = '~'
	SubfieldDelim = '|'
	EscapeChar    = '"'
)

// SplitEscaped splits data on delim, ignoring delimiters found between
// double quotes.  The quotes are kept in the returned parts.  There is always
// at least one part, so an empty string gives [""].
func SplitEscaped(data string, delim byte) []string {
	parts := make([]string, 0, 4)
	pos, escape := 0, false
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case EscapeChar:
			escape = !escape
		case delim:
			if !escape {
				parts = append(parts, data[pos:i])
				pos = i + 1
			}
		}
	}
	return append(parts, data[pos:])
}

// StripQuotes removes the escape quotes around s and collapses doubled
// quotes inside it.  Strings that are not wrapped in quotes are returned
// unchanged.
func StripQuotes(s string) string {
	if !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}
	if len(s) < 2 {
		return ""
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

// ParseFields splits one comma separated field into its repeats and their
// subfields.  Empty repeats are dropped, so an empty field yields an empty
// Field.
func ParseFields(field string) Field {
	repeats := Field{}
	for _, repeat := range SplitEscaped(field, RepeatDelim) {
		if repeat == "" {
			continue
		}
		subfields := SplitEscaped(repeat, SubfieldDelim)
		for i, sub := range subfields {
			subfields[i] = StripQuotes(sub)
		}
		repeats = append(repeats, RepeatGroup(subfields))
	}
	return repeats
}

// ParseLine tokenizes a line that has already lost its terminator.  The row
// is padded with empty fields up to fieldCount.  Lines with more fields than
// that are kept whole.
func ParseLine(line string, fieldCount int) Row {
	fields := SplitEscaped(line, FieldDelim)
	row := make(Row, len(fields), max(len(fields), fieldCount))
	for i, field := range fields {
		row[i] = ParseFields(field)
	}
	for len(row) < fieldCount {
		row = append(row, Field{})
	}
	return row
}

// TrimLineTerminator removes one trailing line terminator.  "\n\r" is tried
// first, then "\r\n", then a single '\n' or '\r'.  Anything before the
// terminator is left alone, including a second '\r'.
func TrimLineTerminator(line string) string {
	switch {
	case strings.HasSuffix(line, "\n\r"), strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2]
	case strings.HasSuffix(line, "\n"), strings.HasSuffix(line, "\r"):
		return line[:len(line)-1]
	}
	return line
}
