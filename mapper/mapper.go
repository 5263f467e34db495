// Package mapper has the helpers schemas use to turn the fields of a feed
// row into record values.  Missing repeats or subfields are never an error:
// the value is simply not present, and the Set* variants leave the
// destination untouched.
package mapper

import (
	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/record"
)

// String returns the first subfield of the first repeat of f, or "".
func String(f feed.Field) string {
	return f.First()
}

// SetString writes String(f) under key if it is not empty.
func SetString(dest *record.Object, key string, f feed.Field) {
	if s := String(f); s != "" {
		dest.SetString(key, s)
	}
}

// Object zips the subfields of the first repeat of f with names.  The
// shorter of the two decides how many keys are written, and empty subfields
// are kept.  If f has no repeat the object is empty.
func Object(f feed.Field, names []string) *record.Object {
	if len(f) == 0 {
		return record.NewObject()
	}
	return zip(f[0], names)
}

// SetObject writes Object(f, names) under key if it is not empty.
func SetObject(dest *record.Object, key string, f feed.Field, names []string) {
	if obj := Object(f, names); obj.Len() > 0 {
		dest.Set(key, obj)
	}
}

// List zips every non-empty repeat of f with names, in source order.
func List(f feed.Field, names []string) *record.List {
	list := record.NewList()
	for _, repeat := range f {
		if len(repeat) == 0 {
			continue
		}
		list.Append(zip(repeat, names))
	}
	return list
}

// SetList writes List(f, names) under key if it is not empty.
func SetList(dest *record.Object, key string, f feed.Field, names []string) {
	if list := List(f, names); list.Len() > 0 {
		dest.Set(key, list)
	}
}

// A Rename maps a source key to a destination key.
type Rename struct {
	From, To string
}

// RenameInto copies the keys of src listed in renames into a new object,
// under their new names, and writes that object under key.  Nothing is
// written if none of the keys are present.
func RenameInto(src *record.Object, renames []Rename, dest *record.Object, key string) {
	obj := record.NewObject()
	for _, r := range renames {
		if v, ok := src.Get(r.From); ok {
			obj.Set(r.To, v)
		}
	}
	if obj.Len() > 0 {
		dest.Set(key, obj)
	}
}

// Copy copies key from src to dest if it is present.
func Copy(src *record.Object, key string, dest *record.Object) {
	if v, ok := src.Get(key); ok {
		dest.Set(key, v)
	}
}

func zip(repeat feed.RepeatGroup, names []string) *record.Object {
	obj := record.NewObject()
	for i, name := range names {
		if i >= len(repeat) {
			break
		}
		obj.SetString(name, repeat[i])
	}
	return obj
}
