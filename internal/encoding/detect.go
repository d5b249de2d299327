// Package encoding turns bank statement exports of unknown encoding
// into UTF-8. Banks ship CSVs as UTF-8 with or without BOM, UTF-16, or
// a legacy Windows codepage depending on the export button used.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize is enough for BOM detection plus a charset heuristic sample.
const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r in a reader that yields UTF-8.
//
// A BOM decides immediately. Without one, content that already
// validates as UTF-8 passes through; otherwise chardet picks the
// codepage, with Windows-1252 as the final fallback since it decodes
// any byte sequence.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	sample, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sampling input: %w", err)
	}

	if reader, ok := bomReader(br, sample); ok {
		return reader, nil
	}

	if utf8.Valid(sample) {
		return br, nil
	}

	return charsetReader(br, sample), nil
}

// bomReader resolves the encoding from a byte order mark, if present.
func bomReader(br *bufio.Reader, sample []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		// Strip the BOM; the rest is already UTF-8.
		_, _ = br.Discard(len(bomUTF8))
		return br, true
	case bytes.HasPrefix(sample, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), true
	case bytes.HasPrefix(sample, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), true
	}

	return nil, false
}

// charsetReader picks a decoder for BOM-less non-UTF-8 content.
func charsetReader(br *bufio.Reader, sample []byte) io.Reader {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return br
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder())
		case "ISO-8859-15":
			return transform.NewReader(br, charmap.ISO8859_15.NewDecoder())
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder())
}
