// Package record holds the JSON-shaped values that transforms build from
// feed rows.  Objects keep their keys in insertion order so documents come
// out in the order the schema wrote them.  Values are turned into token
// streams for encoding.
package record
