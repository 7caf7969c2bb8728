package toon

import (
	"strings"
)

// Alphabet is the Crockford Base32 alphabet: digits plus the letters
// excluding I, L, O, and U, avoiding visually ambiguous symbols.
const Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// decodeMap maps alphabet symbols (both cases) and the common
// look-alike substitutions (i/l -> 1, o -> 0) to their 5-bit values.
var decodeMap = buildDecodeMap()

func buildDecodeMap() map[rune]byte {
	m := make(map[rune]byte, 2*len(Alphabet)+6)
	for i, c := range Alphabet {
		m[c] = byte(i)
		m[c|0x20] = byte(i) // lowercase; digits are unaffected
	}
	for _, c := range "iIlL" {
		m[c] = 1
	}
	m['o'] = 0
	m['O'] = 0
	return m
}

// EncodeBase32 encodes arbitrary bytes using the Crockford alphabet,
// 5 bits per symbol, most-significant-bit first. A final partial group
// is left-shifted and zero-padded, so decoding the output may yield up
// to 4 extra trailing zero bits; callers that know the expected byte
// length must discard them.
func EncodeBase32(data []byte) string {
	var b strings.Builder
	b.Grow((len(data)*8 + 4) / 5)

	var buffer uint
	bitsLeft := 0
	for _, by := range data {
		buffer = buffer<<8 | uint(by)
		bitsLeft += 8
		for bitsLeft >= 5 {
			bitsLeft -= 5
			b.WriteByte(Alphabet[(buffer>>bitsLeft)&0x1F])
		}
	}
	if bitsLeft > 0 {
		b.WriteByte(Alphabet[(buffer<<(5-bitsLeft))&0x1F])
	}
	return b.String()
}

// DecodeBase32 decodes a Crockford Base32 string. Input is accepted
// case-insensitively, hyphens and spaces are ignored, and the
// look-alike substitutions i/l -> 1 and o -> 0 are normalized before
// lookup. An out-of-alphabet character fails with a *ValidationError.
func DecodeBase32(encoded string) ([]byte, error) {
	result := make([]byte, 0, len(encoded)*5/8)

	var buffer uint
	bitsLeft := 0
	for _, c := range encoded {
		if c == '-' || c == ' ' {
			continue
		}
		v, ok := decodeMap[c]
		if !ok {
			return nil, &ValidationError{
				Input:  encoded,
				Reason: "invalid Base32 character " + string(c),
			}
		}
		buffer = buffer<<5 | uint(v)
		bitsLeft += 5
		for bitsLeft >= 8 {
			bitsLeft -= 8
			result = append(result, byte((buffer>>bitsLeft)&0xFF))
		}
	}
	return result, nil
}
