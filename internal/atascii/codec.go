// Package atascii converts between the Atari 8-bit character set and UTF-8.
//
// ATASCII uses 0x9B as end of line. The 0x00-0x1F range and a handful of
// printable positions hold graphics characters, which are mapped to the
// closest Unicode box-drawing and symbol code points. Bytes 0x80-0xFF are the
// inverse-video variants of 0x00-0x7F; they have no Unicode equivalent and are
// mapped one-to-one onto the private use area at U+E000+byte so that a round
// trip is lossless.
package atascii

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	// EOL is the ATASCII end-of-line byte.
	EOL byte = 0x9B

	// Tab is the ATASCII tab byte.
	Tab byte = 0x7F

	inverseBase rune = 0xE000
)

// graphics holds the code points of the non-ASCII positions below 0x80.
var graphics = map[byte]rune{
	0x00: '♥', 0x01: '┣', 0x02: '┃', 0x03: '┛',
	0x04: '┫', 0x05: '┓', 0x06: '╱', 0x07: '╲',
	0x08: '◢', 0x09: '▗', 0x0A: '◣', 0x0B: '▝',
	0x0C: '▘', 0x0D: '▔', 0x0E: '▂', 0x0F: '▖',
	0x10: '♣', 0x11: '┏', 0x12: '━', 0x13: '╋',
	0x14: '●', 0x15: '▄', 0x16: '▎', 0x17: '┳',
	0x18: '┻', 0x19: '▌', 0x1A: '┗', 0x1B: '␛',
	0x1C: '↑', 0x1D: '↓', 0x1E: '←', 0x1F: '→',
	0x60: '♦', 0x7B: '♠', 0x7D: '↰', 0x7E: '◀',
	0x7F: '▶',
}

var (
	decodeTable [256]rune
	encodeTable = make(map[rune]byte, 256)
)

func init() {
	for b := 0; b < 0x80; b++ {
		r, ok := graphics[byte(b)]
		if !ok {
			r = rune(b)
		}
		decodeTable[b] = r
		encodeTable[r] = byte(b)
	}
	for b := 0x80; b < 0x100; b++ {
		r := inverseBase + rune(b)
		decodeTable[b] = r
		if byte(b) != EOL {
			encodeTable[r] = byte(b)
		}
	}
	decodeTable[EOL] = '\n'
	encodeTable['\n'] = EOL
	encodeTable['\t'] = Tab
}

// Decode returns the UTF-8 rune for an ATASCII byte.
func Decode(b byte) rune {
	return decodeTable[b]
}

// Encode returns the ATASCII byte for r, if there is one.
func Encode(r rune) (byte, bool) {
	b, ok := encodeTable[r]
	return b, ok
}

// UnmappableError is returned when UTF-8 input holds a rune with no ATASCII
// byte.
type UnmappableError struct {
	Rune rune
}

func (e *UnmappableError) Error() string {
	return fmt.Sprintf("atascii: no mapping for %U %q", e.Rune, e.Rune)
}

// Encoding is the ATASCII character set. Its decoder produces UTF-8 and its
// encoder consumes UTF-8.
var Encoding encoding.Encoding = atasciiEncoding{}

type atasciiEncoding struct{}

func (atasciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (atasciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

func (atasciiEncoding) String() string {
	return "ATASCII"
}

type decoder struct{ transform.NopResetter }

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var buf [utf8.UTFMax]byte
	for nSrc < len(src) {
		r := decodeTable[src[nSrc]]
		n := utf8.EncodeRune(buf[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], buf[:n])
		nDst += n
		nSrc++
	}
	return nDst, nSrc, nil
}

type encoder struct{ transform.NopResetter }

// Transform drops carriage returns so CRLF text encodes like LF text.
func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, size = utf8.DecodeRune(src[nSrc:])
			if r == utf8.RuneError && size == 1 {
				return nDst, nSrc, fmt.Errorf("atascii: invalid UTF-8 at byte %d", nSrc)
			}
		}

		if r == '\r' {
			nSrc += size
			continue
		}

		b, ok := encodeTable[r]
		if !ok {
			return nDst, nSrc, &UnmappableError{Rune: r}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}
