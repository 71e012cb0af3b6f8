package sheet

// streaming.go provides the reader chain that sits between a raw export and
// the CSV parser:
//
//   - Decode: strips a UTF-8 BOM and decodes UTF-16 exports that carry a BOM
//   - UTF8Sanitizer: replaces invalid UTF-8 sequences with '?'
//   - LimitReader: counts bytes and fails once a size limit is crossed
//
// Use Wrap to apply all three in the correct order.

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode returns a reader that removes a leading UTF-8 BOM and transcodes
// UTF-16 (LE or BE, detected by BOM) to UTF-8. Input without a BOM passes
// through untouched.
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'
// on the fly, using O(buffer) memory.
type UTF8Sanitizer struct {
	reader io.Reader

	// Leftover bytes from the previous read that may start a multi-byte sequence
	pending []byte
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset

	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand
// out. When atEOF is false an incomplete trailing sequence is held back.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTrailingBytes(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && r == utf8.RuneError && isIncompleteRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input
			data[write] = '?'
			write++
			read++
		} else {
			copy(data[write:], data[read:read+size])
			write += size
			read += size
		}
	}

	return write
}

func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

func isIncompleteRune(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return runeLen(data[0]) > len(data)
}

// LimitReader counts the bytes read and returns ErrTooLarge once more than
// Max bytes have been read. Max <= 0 disables the limit.
type LimitReader struct {
	reader    io.Reader
	BytesRead int64
	Max       int64
}

// NewLimitReader creates a counting reader with an optional size limit.
func NewLimitReader(r io.Reader, max int64) *LimitReader {
	return &LimitReader{reader: r, Max: max}
}

// Read implements io.Reader.
func (r *LimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Max > 0 && r.BytesRead > r.Max {
		return n, ErrTooLarge
	}
	return n, err
}

// Wrap applies the size limit, decoding and sanitization to a raw export.
//
// The order matters:
//  1. The limit counts raw bytes as they come off the source
//  2. BOM handling and UTF-16 decoding need the raw bytes
//  3. Sanitization runs last, on UTF-8
func Wrap(r io.Reader, max int64) io.Reader {
	return NewUTF8Sanitizer(Decode(NewLimitReader(r, max)))
}
