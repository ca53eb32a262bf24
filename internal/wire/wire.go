// Package wire implements the line framing used on IRC sockets: outbound
// lines are terminated with CRLF, inbound data is buffered until a terminator
// arrives and handed out with terminators stripped. Message-level parsing and
// encoding is delegated to gopkg.in/irc.v3.
package wire

import (
	"bufio"
	"io"
	"strings"

	irc "gopkg.in/irc.v3"
)

// TrimLine strips any trailing CR/LF terminators from a line. Applied to
// every inbound line and to operator input before re-framing, so a line is
// never double-terminated on the way out.
func TrimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// Reader frames inbound socket data into complete lines.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader framing lines from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine blocks until a complete line is available and returns it with the
// terminators removed. Both CRLF and bare LF are accepted. A partial line at
// EOF is discarded rather than handed out truncated.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return TrimLine(line), nil
}

// Writer frames outbound lines with CRLF.
type Writer struct {
	w *irc.Writer
}

// NewWriter returns a Writer framing lines onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: irc.NewWriter(w)}
}

// WriteLine writes a single line followed by CRLF. Any terminators already
// present on the input are trimmed first.
func (w *Writer) WriteLine(line string) error {
	return w.w.Write(TrimLine(line))
}

// WriteMessage encodes and writes a single IRC message followed by CRLF.
func (w *Writer) WriteMessage(m *irc.Message) error {
	return w.w.WriteMessage(m)
}
