// Package feed reads the delimited text dialect of the clinical feed.
//
// A line holds comma separated fields.  Each field may pack several repeats
// separated by '~', and each repeat holds subfields separated by '|':
//
//	1,a|b|c~d|e|f,d
//
// reads as
//
//	[[["1"]], [["a", "b", "c"], ["d", "e", "f"]], [["d"]]]
//
// A double quote toggles escaping at every level, so a quoted section can
// contain any of the three delimiters.  Subfields wrapped in quotes are
// unescaped: the outer pair is removed and doubled quotes collapse to one.
// encoding/csv cannot be used for this because it strips quotes from fields
// before the repeat and subfield delimiters have been applied.
//
// Quoting is not validated.  An unbalanced quote leaves the escape flag on
// for the rest of the string being split, so later delimiters in it are not
// treated as boundaries.
package feed
