package record

import "github.com/arnodel/feedjson/token"

// A Value is a String, an *Object or a *List.
type Value interface {
	WriteTokens(out token.WriteStream)
}

// String is a JSON string value.
type String string

var _ Value = String("")

func (s String) WriteTokens(out token.WriteStream) {
	out.Put(token.StringScalar(string(s)))
}

// Object is a JSON object with ordered keys.  The zero value is an empty
// object ready to use.
type Object struct {
	keys   []string
	values map[string]Value
}

var _ Value = &Object{}

func NewObject() *Object {
	return &Object{}
}

// Set stores v under key.  A key that is already present keeps its
// position.
func (o *Object) Set(key string, v Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// SetString is a shortcut for Set(key, String(s)).
func (o *Object) SetString(key, s string) {
	o.Set(key, String(s))
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// GetString returns the string stored under key.  ok is false if the key is
// missing or holds another kind of value.
func (o *Object) GetString(key string) (s string, ok bool) {
	v, ok := o.values[key].(String)
	return string(v), ok
}

func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.values[key].(*Object)
	return v, ok
}

func (o *Object) GetList(key string) (*List, bool) {
	v, ok := o.values[key].(*List)
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) WriteTokens(out token.WriteStream) {
	out.Put(&token.StartObject{})
	for _, key := range o.keys {
		out.Put(token.KeyScalar(key))
		o.values[key].WriteTokens(out)
	}
	out.Put(&token.EndObject{})
}

// List is a JSON array.
type List struct {
	items []Value
}

var _ Value = &List{}

func NewList(items ...Value) *List {
	return &List{items: items}
}

func (l *List) Append(items ...Value) {
	l.items = append(l.items, items...)
}

func (l *List) Items() []Value {
	return l.items
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) WriteTokens(out token.WriteStream) {
	out.Put(&token.StartArray{})
	for _, item := range l.items {
		item.WriteTokens(out)
	}
	out.Put(&token.EndArray{})
}

// Equal reports whether a and b hold the same JSON value.  Object key order
// is ignored.  Nil values are only equal to each other.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, key := range x.keys {
			yv, ok := y.values[key]
			if !ok || !Equal(x.values[key], yv) {
				return false
			}
		}
		return true
	case *List:
		y, ok := b.(*List)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
