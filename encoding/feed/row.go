package feed

import "github.com/arnodel/feedjson/token"

// A RepeatGroup is one repeat of a field: its subfields in order.
type RepeatGroup []string

// A Field holds the repeats of one comma separated field.
type Field []RepeatGroup

// A Row is a tokenized line.  Index i is the i-th physical field.
type Row []Field

// First returns the first subfield of the first repeat, or "" if there is
// none.
func (f Field) First() string {
	if len(f) == 0 || len(f[0]) == 0 {
		return ""
	}
	return f[0][0]
}

// At returns the field at index i, or nil if the row is too short.
func (r Row) At(i int) Field {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// WriteTokens emits the row as nested JSON arrays of strings.
func (r Row) WriteTokens(out token.WriteStream) {
	out.Put(&token.StartArray{})
	for _, field := range r {
		out.Put(&token.StartArray{})
		for _, repeat := range field {
			out.Put(&token.StartArray{})
			for _, sub := range repeat {
				out.Put(token.StringScalar(sub))
			}
			out.Put(&token.EndArray{})
		}
		out.Put(&token.EndArray{})
	}
	out.Put(&token.EndArray{})
}
