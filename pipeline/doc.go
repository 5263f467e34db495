// Package pipeline converts feed input into JSONL documents.
//
// The pipeline is pulled from the end: the converter asks the engine for
// the next document, the engine asks the record source for records, and the
// source reads and transforms one row at a time.  Nothing runs in the
// background and at most one pending record plus one lookahead are held.
//
//	feed.Reader -> Transformer -> engine (identity | combine) -> json.Writer
package pipeline
