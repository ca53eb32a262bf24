package wire

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	irc "gopkg.in/irc.v3"
)

func TestTrimLine(t *testing.T) {
	assert.Equal(t, "NICK tester", TrimLine("NICK tester\r\n"))
	assert.Equal(t, "NICK tester", TrimLine("NICK tester\n"))
	assert.Equal(t, "NICK tester", TrimLine("NICK tester"))
	assert.Equal(t, "", TrimLine("\r\n"))
	assert.Equal(t, "a \t b", TrimLine("a \t b\r\n"), "inner whitespace must survive")
}

func TestReaderFramesLines(t *testing.T) {
	r := NewReader(strings.NewReader("NICK tester\r\nUSER tester 0 * :Tess Ter\nPING :token\r\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "NICK tester", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "USER tester 0 * :Tess Ter", line, "bare LF is accepted")

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "PING :token", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderDiscardsPartialLineAtEOF(t *testing.T) {
	r := NewReader(strings.NewReader("COMPLETE\r\nPARTIAL"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", line)

	line, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, line, "partial line must not be handed out")
}

func TestWriterAppendsCRLF(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteLine(":srv NOTICE A :hi"))
	assert.Equal(t, ":srv NOTICE A :hi\r\n", buf.String())
}

func TestWriterNeverDoubleTerminates(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteLine("already terminated\r\n"))
	assert.Equal(t, "already terminated\r\n", buf.String())
}

func TestWriterEncodesMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	msg := &irc.Message{
		Prefix:  &irc.Prefix{Name: "localhost"},
		Command: "PONG",
		Params:  []string{"token"},
	}
	require.NoError(t, w.WriteMessage(msg))
	assert.Equal(t, ":localhost PONG token\r\n", buf.String())
}
