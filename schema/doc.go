// Package schema holds the record types known to the feed: the layout of
// their rows and how they become JSON records.  Each type is a strategy
// satisfying pipeline.Combiner; a Registry maps type names to them.
package schema
