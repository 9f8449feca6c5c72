package console_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/zephyrtronium/protocore/console"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF8", "", "utf-16le", "UTF-16BE", "utf-32le", "latin1", "ISO-8859-1", "windows-1252"} {
		if _, err := console.Lookup(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if _, err := console.Lookup("ebcdic"); err == nil {
		t.Error("no error for unknown encoding")
	}
}

func TestWriter(t *testing.T) {
	cases := map[string]struct {
		enc  string
		in   string
		want string
	}{
		"UTF8":        {console.UTF8, "héllo", "h\xc3\xa9llo\n"},
		"Latin1":      {console.Latin1, "café", "caf\xe9\n"},
		"Unsupported": {console.Latin1, "x世", "x\x1a\n"},
		"Latin1Euro":  {console.Latin1, "5€", "5\x1a\n"},
		"Windows1252": {console.Windows1252, "5€", "5\x80\n"},
		"UTF16LE":     {console.UTF16LE, "hi", "h\x00i\x00\n\x00"},
		"UTF16BE":     {console.UTF16BE, "hi", "\x00h\x00i\x00\n"},
		"UTF32LE":     {console.UTF32LE, "A", "A\x00\x00\x00\n\x00\x00\x00"},
		"Surrogate":   {console.UTF16LE, "\U0001F600", "\x3d\xd8\x00\xde\n\x00"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var b bytes.Buffer
			w, err := console.New(&b, c.enc)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Println(c.in); err != nil {
				t.Fatal(err)
			}
			if got := b.String(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestWriterUnknown(t *testing.T) {
	if _, err := console.New(new(bytes.Buffer), "klingon"); err == nil {
		t.Error("no error for unknown encoding")
	}
}

func TestWriterConcurrent(t *testing.T) {
	var b bytes.Buffer
	w, err := console.New(&b, console.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				w.Println("line")
			}
		}()
	}
	wg.Wait()
	if got, want := b.Len(), 8*100*len("line\n"); got != want {
		t.Errorf("want %d bytes, got %d", want, got)
	}
}
