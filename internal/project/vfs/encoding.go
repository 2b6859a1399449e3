package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names the character encoding a document is stored in.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingLatin1  Encoding = "iso-8859-1"
)

// LineEnding names the newline convention of a document.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
	LineEndingCR   LineEnding = "cr"
)

// Separator returns the byte sequence written between lines.
func (le LineEnding) Separator() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

var (
	// ErrUnknownEncoding is returned for encodings without a codec.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrUnrepresentable is returned by Encode for text the target
	// encoding has no bytes for, such as "€" in Latin-1.
	ErrUnrepresentable = errors.New("text not representable")
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding checks for BOM markers first, then validates UTF-8.
// Falls back to Latin-1 which accepts all byte sequences.
func DetectEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(content):
		return EncodingUTF8
	default:
		return EncodingLatin1
	}
}

// DetectLineEnding returns the dominant newline convention of decoded text.
// Text without newlines is reported as LF.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf > lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// IsBinary reports whether content looks like binary data: a NUL byte, or
// more than 10% control characters, within the first 8KB.
// UTF-16 content is recognized by its BOM and never reported as binary.
func IsBinary(content []byte) bool {
	if len(content) == 0 || bytes.HasPrefix(content, bomUTF16LE) || bytes.HasPrefix(content, bomUTF16BE) {
		return false
	}

	sample := content[:min(len(content), 8192)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return nonText*10 > len(sample)
}

// codec returns the x/text encoding for enc, or nil for plain UTF-8.
func codec(enc Encoding) (encoding.Encoding, error) {
	switch enc {
	case EncodingUTF8, EncodingUTF8BOM, "":
		return nil, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case EncodingLatin1:
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}
}

// Decode converts raw file content to UTF-8 text, stripping any BOM.
// It returns the detected encoding so the content can be written back
// unchanged by Encode.
func Decode(content []byte) (string, Encoding, error) {
	enc := DetectEncoding(content)

	switch enc {
	case EncodingUTF8BOM:
		content = content[len(bomUTF8):]
	case EncodingUTF16LE, EncodingUTF16BE:
		content = content[2:]
	}

	c, err := codec(enc)
	if err != nil {
		return "", enc, err
	}
	if c == nil {
		return string(content), enc, nil
	}
	out, err := c.NewDecoder().Bytes(content)
	if err != nil {
		return "", enc, fmt.Errorf("decoding %s: %w", enc, err)
	}
	return string(out), enc, nil
}

// Encode converts UTF-8 text to enc, adding the BOM the encoding carries.
func Encode(text string, enc Encoding) ([]byte, error) {
	c, err := codec(enc)
	if err != nil {
		return nil, err
	}

	var body []byte
	if c == nil {
		body = []byte(text)
	} else {
		body, err = c.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("%w in %s: %v", ErrUnrepresentable, enc, err)
		}
	}

	var bom []byte
	switch enc {
	case EncodingUTF8BOM:
		bom = bomUTF8
	case EncodingUTF16LE:
		bom = bomUTF16LE
	case EncodingUTF16BE:
		bom = bomUTF16BE
	}
	if bom == nil {
		return body, nil
	}
	out := make([]byte, 0, len(bom)+len(body))
	out = append(out, bom...)
	return append(out, body...), nil
}
