package token

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// A Token is an item in a stream that encodes a JSON value
// For example, the JSON value
//
//	{"id": "123", "tags": ["important", "new"]}
//
// would be represented by the stream of Token (in pseudocode for
// clarity):
//
//	{            -> StartObject
//	"id":        -> Scalar("id", String|Key)
//	"123",       -> Scalar("123", String)
//	"tags":      -> Scalar("tags", String|Key)
//	[            -> StartArray
//	"important", -> Scalar("important", String)
//	"new"        -> Scalar("new", String)
//	]            -> EndArray
//	}            -> EndObject
//
// Records and rows are turned into streams of Token values which the
// encoder then pulls one at a time.
type Token interface {
	fmt.Stringer
}

// StartObject represents the start of a JSON object (introduced by '{').
type StartObject struct{}

func (s *StartObject) String() string {
	return "StartObject"
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}')
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']')
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// Scalar is the type used to represent JSON scalar values.  Feed data only
// ever produces strings, but the type is kept in TypeAndFlags so keys can be
// told apart from values when printing.
type Scalar struct {

	// Literal representation of the value, e.g. the string "foo" is
	// represented as []byte("\"foo\"")
	Bytes []byte

	// Type of the value
	TypeAndFlags uint8
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

func (s *Scalar) Type() ScalarType {
	return (ScalarType(s.TypeAndFlags & TypeMask))
}

func (s *Scalar) IsKey() bool {
	return KeyMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null               = 0x0 // the type of JSON null
	Boolean            = 0x1 // a JSON boolean
	Number             = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

const (
	TypeMask = 0b00011
	KeyMask  = 0b00100
)

// StringScalar encodes s as a JSON string literal.  HTML characters are left
// alone and non-ASCII text is kept as UTF-8.
func StringScalar(s string) *Scalar {
	return NewScalar(String, encodeString(s))
}

// KeyScalar is like StringScalar but marks the scalar as an object key.
func KeyScalar(s string) *Scalar {
	scalar := StringScalar(s)
	scalar.TypeAndFlags |= KeyMask
	return scalar
}

func encodeString(s string) []byte {
	var b bytes.Buffer
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		panic(err)
	}
	var encodedBytes = b.Bytes()
	// Remove the new line at the end
	return encodedBytes[:len(encodedBytes)-1]
}
