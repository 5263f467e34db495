package record

import (
	"github.com/arnodel/feedjson/token"
	"github.com/cespare/xxhash/v2"
)

// A Fingerprint is a 64-bit hash of a tuple of values.  Two tuples with the
// same JSON content have the same fingerprint, with object keys taken in
// insertion order.
type Fingerprint uint64

// FingerprintOf hashes the canonical token encoding of values.  A nil entry
// stands for an absent value and hashes differently from every present one.
func FingerprintOf(values ...Value) Fingerprint {
	h := hashStream{digest: xxhash.New()}
	for _, v := range values {
		if v == nil {
			h.tag(tagAbsent)
			continue
		}
		v.WriteTokens(&h)
		h.tag(tagEndValue)
	}
	return Fingerprint(h.digest.Sum64())
}

const (
	tagAbsent byte = iota
	tagEndValue
	tagStartObject
	tagEndObject
	tagStartArray
	tagEndArray
	tagScalar
	tagKey
)

type hashStream struct {
	digest *xxhash.Digest
}

var _ token.WriteStream = &hashStream{}

func (h *hashStream) tag(b byte) {
	_, _ = h.digest.Write([]byte{b})
}

func (h *hashStream) Put(tok token.Token) {
	switch t := tok.(type) {
	case *token.StartObject:
		h.tag(tagStartObject)
	case *token.EndObject:
		h.tag(tagEndObject)
	case *token.StartArray:
		h.tag(tagStartArray)
	case *token.EndArray:
		h.tag(tagEndArray)
	case *token.Scalar:
		if t.IsKey() {
			h.tag(tagKey)
		} else {
			h.tag(tagScalar)
		}
		// quoted literal, so self-delimiting
		_, _ = h.digest.Write(t.Bytes)
	}
}
