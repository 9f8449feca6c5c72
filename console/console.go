// Package console writes program output in a configurable text encoding.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding names.
const (
	UTF8        = "utf-8"
	UTF16LE     = "utf-16le"
	UTF16BE     = "utf-16be"
	UTF32LE     = "utf-32le"
	Latin1      = "latin1"
	Windows1252 = "windows-1252"
)

// Lookup returns the text encoding with the given name, ignoring case.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case UTF8, "utf8", "":
		return unicode.UTF8, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case Latin1, "iso-8859-1":
		return charmap.ISO8859_1, nil
	case Windows1252, "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported console encoding %q", name)
}

// Writer writes lines of text to an underlying writer in an encoding.
// Characters the encoding cannot represent are replaced. Writer is safe for
// concurrent use.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	enc *encoding.Encoder
}

// New creates a Writer encoding to w.
func New(w io.Writer, name string) (*Writer, error) {
	e, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, enc: encoding.ReplaceUnsupported(e.NewEncoder())}, nil
}

// Print writes s without a trailing newline.
func (w *Writer) Print(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, err := w.enc.String(s)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w.w, b)
	return err
}

// Println writes s followed by a newline.
func (w *Writer) Println(s string) error {
	return w.Print(s + "\n")
}
