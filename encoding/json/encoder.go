// Package json writes token streams as JSON text, one document per line.
package json

import (
	"fmt"

	"github.com/arnodel/feedjson/internal/format"
	"github.com/arnodel/feedjson/iterator"
	"github.com/arnodel/feedjson/token"
)

// An Encoder outputs each JSON value of a token stream on a single line
// using the given Printer.  Items are separated by ", " and keys from their
// values by ": ".
type Encoder struct {
	format.Printer
	*format.Colorizer
}

// Encode writes the values of the stream back to back; separating documents
// is up to the caller.  It assumes that the stream is well-formed and may
// panic if that is not the case.
//
// An error can be returned if the Printer could not perform some writing
// operation.  A typical example is if it attempts to write to a closed pipe.
func (e *Encoder) Encode(stream token.ReadStream) (err error) {
	defer format.CatchPrinterError(&err)
	iter := iterator.New(stream)
	for iter.Advance() {
		e.writeValue(iter.CurrentValue())
	}
	return nil
}

func (e *Encoder) writeValue(value iterator.Value) {
	switch v := value.(type) {
	case *iterator.Scalar:
		e.Colorizer.PrintScalar(e.Printer, v.Scalar())
	case *iterator.Object:
		e.writeObject(v)
	case *iterator.Array:
		e.writeArray(v)
	default:
		panic(fmt.Sprintf("invalid stream item: %#v", value))
	}
}

func (e *Encoder) writeObject(obj *iterator.Object) {
	e.PrintBytes(openObjectBytes)
	firstItem := true
	for obj.Advance() {
		key, value := obj.CurrentKeyVal()
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
		}
		firstItem = false
		e.Colorizer.PrintScalar(e.Printer, key)
		e.PrintBytes(keyValueSeparatorBytes)
		e.writeValue(value)
	}
	e.PrintBytes(closeObjectBytes)
}

func (e *Encoder) writeArray(arr *iterator.Array) {
	e.PrintBytes(openArrayBytes)
	firstItem := true
	for arr.Advance() {
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
		}
		firstItem = false
		e.writeValue(arr.CurrentValue())
	}
	e.PrintBytes(closeArrayBytes)
}

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	itemSeparatorBytes     = []byte(", ")
	keyValueSeparatorBytes = []byte(": ")
)
