package format

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/arnodel/feedjson/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

var errBroken = errors.New("broken pipe")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errBroken
}

func TestDefaultPrinter(t *testing.T) {
	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	p := &DefaultPrinter{Writer: out, Flusher: out}

	p.PrintBytes([]byte("abc"))
	p.NewLine()
	assert.Equal(t, "", buf.String())
	p.Flush()
	assert.Equal(t, "abc\n", buf.String())
}

func TestCatchPrinterError(t *testing.T) {
	write := func() (err error) {
		defer CatchPrinterError(&err)
		p := &DefaultPrinter{Writer: failingWriter{}}
		p.PrintBytes([]byte("x"))
		return nil
	}
	err := write()
	require.Error(t, err)
	var perr *PrinterError
	assert.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, errBroken)
}

func TestCatchPrinterErrorRepanics(t *testing.T) {
	assert.PanicsWithValue(t, "other", func() {
		var err error
		defer CatchPrinterError(&err)
		panic("other")
	})
}

func TestColorizer(t *testing.T) {
	c := &Colorizer{
		KeyColorCode:     []byte("<k>"),
		ScalarColorCodes: [4][]byte{nil, nil, nil, []byte("<s>")},
		ResetCode:        []byte("</>"),
	}
	var buf bytes.Buffer
	p := &DefaultPrinter{Writer: &buf}

	c.PrintScalar(p, token.KeyScalar("k"))
	c.PrintScalar(p, token.StringScalar("v"))
	assert.Equal(t, `<k>"k"</><s>"v"</>`, buf.String())

	buf.Reset()
	var none *Colorizer
	none.PrintScalar(p, token.StringScalar("v"))
	assert.Equal(t, `"v"`, buf.String())
}
