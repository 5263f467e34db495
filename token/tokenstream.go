package token

// A ReadStream is pulled one token at a time.  Next returns nil when the
// stream is exhausted.
type ReadStream interface {
	Next() Token
}

// A WriteStream receives tokens one at a time.
type WriteStream interface {
	Put(Token)
}

type SliceReadStream struct {
	toks []Token
}

var _ ReadStream = &SliceReadStream{}

func NewSliceReadStream(toks []Token) *SliceReadStream {
	return &SliceReadStream{toks: toks}
}

func (r *SliceReadStream) Next() (tok Token) {
	if len(r.toks) > 0 {
		tok = r.toks[0]
		r.toks = r.toks[1:]
	}
	return
}

type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// Reset empties the accumulator so it can be reused for the next value.
func (w *AccumulatorStream) Reset() {
	clear(w.toks)
	w.toks = w.toks[:0]
}

// ReadStream returns a stream over the accumulated tokens.
func (w *AccumulatorStream) ReadStream() *SliceReadStream {
	return NewSliceReadStream(w.toks)
}
