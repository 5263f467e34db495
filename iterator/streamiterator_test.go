package iterator

import (
	"testing"

	"github.com/arnodel/feedjson/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stream(toks ...token.Token) token.ReadStream {
	return token.NewSliceReadStream(toks)
}

func TestIteratorTopLevelValues(t *testing.T) {
	iter := New(stream(
		token.StringScalar("a"),
		&token.StartArray{}, token.StringScalar("b"), &token.EndArray{},
		&token.StartObject{}, &token.EndObject{},
	))

	require.True(t, iter.Advance())
	s, ok := iter.CurrentValue().(*Scalar)
	require.True(t, ok)
	assert.Equal(t, `"a"`, string(s.Scalar().Bytes))

	require.True(t, iter.Advance())
	_, ok = iter.CurrentValue().(*Array)
	assert.True(t, ok)

	// The array is discarded without being read
	require.True(t, iter.Advance())
	_, ok = iter.CurrentValue().(*Object)
	assert.True(t, ok)

	assert.False(t, iter.Advance())
	assert.Nil(t, iter.CurrentValue())
}

func TestObjectIteration(t *testing.T) {
	iter := New(stream(
		&token.StartObject{},
		token.KeyScalar("k1"), token.StringScalar("v1"),
		token.KeyScalar("k2"), &token.StartArray{}, token.StringScalar("x"), &token.EndArray{},
		token.KeyScalar("k3"), token.StringScalar("v3"),
		&token.EndObject{},
	))
	require.True(t, iter.Advance())
	obj := iter.CurrentValue().(*Object)

	var keys []string
	for obj.Advance() {
		key, _ := obj.CurrentKeyVal()
		keys = append(keys, string(key.Bytes))
	}
	assert.Equal(t, []string{`"k1"`, `"k2"`, `"k3"`}, keys)
	assert.True(t, obj.Done())
	assert.False(t, iter.Advance())
}

func TestArrayDiscardNested(t *testing.T) {
	iter := New(stream(
		&token.StartArray{},
		&token.StartArray{}, token.StringScalar("a"), &token.EndArray{},
		token.StringScalar("b"),
		&token.EndArray{},
		token.StringScalar("after"),
	))
	require.True(t, iter.Advance())
	arr := iter.CurrentValue().(*Array)
	require.True(t, arr.Advance())
	_, ok := arr.CurrentValue().(*Array)
	require.True(t, ok)

	// Moving on discards the rest of the outer array
	require.True(t, iter.Advance())
	s := iter.CurrentValue().(*Scalar)
	assert.Equal(t, `"after"`, string(s.Scalar().Bytes))
	assert.True(t, arr.Done())
}
