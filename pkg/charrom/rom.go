// Package charrom implements the character ROM encoder (§4.C) and the
// special-character bitmap encoder (§4.D).
package charrom

import (
	"strings"
	"unicode/utf8"
)

// FallbackCode is emitted in place of a grapheme that has no ROM entry
// when encoding with ReplaceInvalid.
const FallbackCode byte = 0xA1

// maxGraphemeRunes bounds the lookahead window used when matching
// multi-code-point graphemes: the pack's CGA ROM only ever needs up to
// three code points (e.g. the inverse glyph below), so a hard-coded
// lookahead is sufficient and a trie is not warranted (§4.C, §9).
const maxGraphemeRunes = 3

// builtinTable seeds the ROM from the 16x16 CGA glyph grid (CGA position
// j*16+i for row i, column j), taken verbatim from
// original_source/crystalfontz/character.py's CGROM constant. It is a
// single-code-point table except for the one special-cased two-code-point
// grapheme, the inverse symbol "⁻¹" (U+207B U+00B9).
var builtinTable = map[string]byte{
	"!": 17, "\"": 18, "#": 19, "$": 20, "%": 21, "&": 22, "'": 23,
	"(": 24, ")": 25, "*": 26, "+": 27, ",": 28, "-": 29, ".": 30, "/": 31,
	"0": 32, "1": 33, "2": 34, "3": 35, "4": 36, "5": 37, "6": 38, "7": 39,
	"8": 40, "9": 41, ":": 42, ";": 43, "<": 44, "=": 45, ">": 46, "?": 47,
	"@": 48, "A": 49, "B": 50, "C": 51, "D": 52, "E": 53, "F": 54, "G": 55,
	"H": 56, "I": 57, "J": 58, "K": 59, "L": 60, "M": 61, "N": 62, "O": 63,
	"P": 64, "Q": 65, "R": 66, "S": 67, "T": 68, "U": 69, "V": 70, "W": 71,
	"X": 72, "Y": 73, "Z": 74, "[": 75, "¥": 76, "]": 77, "^": 78,
	"`": 80, "a": 81, "b": 82, "c": 83, "d": 84, "e": 85, "f": 86, "g": 87,
	"h": 88, "i": 89, "j": 90, "k": 91, "l": 92, "m": 93, "n": 94, "o": 95,
	"p": 96, "q": 97, "r": 98, "s": 99, "t": 100, "u": 101, "v": 102, "w": 103,
	"y": 105, "z": 106, "{": 107, "|": 108, "}": 109, "→": 110, "←": 111,
	" ": 143,
	"。": 145, "「": 146, "」": 147, "、": 148, "・": 149,
	"ヲ": 150, "ア": 151, "イ": 152, "ゥ": 153, "エ": 154, "オ": 155,
	"ヤ": 156, "ユ": 157, "ヨ": 158, "ツ": 159, "―": 160,
	"ウ": 163, "カ": 166, "キ": 167, "ク": 168, "ケ": 169, "コ": 170,
	"サ": 171, "シ": 172, "ヌ": 173, "セ": 174, "ソ": 175,
	"°": 207, "α": 208, "ä": 209, "β": 210, "ε": 211, "μ": 212, "σ": 213,
	"√": 216, "¢": 220, "£": 221, "ñ": 222, "ö": 223,
	"θ": 226, "∞": 227, "Ω": 228, "ü": 229, "ρ": 230, "π": 231,
	"x": 232, "÷": 237, "█": 239, "Σ": 246, "̄": 248,
	"⁻¹": 253, // U+207B U+00B9, the one multi-code-point override the ROM needs
}

// ErrorMode controls what Encode does with a grapheme that has no entry
// in the ROM.
type ErrorMode int

const (
	// Strict fails the whole encode with an *EncodeError.
	Strict ErrorMode = iota
	// ReplaceInvalid substitutes FallbackCode and continues.
	ReplaceInvalid
)

// EncodeError reports a grapheme with no ROM entry under Strict mode.
type EncodeError struct {
	Grapheme string
}

func (e *EncodeError) Error() string {
	return "crystalfontz: no ROM entry for character " + string(e.Grapheme)
}

// Rom is a mutable Unicode-grapheme-to-device-byte table. The zero value
// is not usable; construct with New.
type Rom struct {
	table  map[string]byte
	decode map[byte]string
}

// New returns a ROM seeded from the built-in 16x16 glyph grid.
func New() *Rom {
	r := &Rom{
		table:  make(map[string]byte, len(builtinTable)),
		decode: make(map[byte]string, len(builtinTable)),
	}
	for g, b := range builtinTable {
		r.set(g, b)
	}
	return r
}

func (r *Rom) set(grapheme string, code byte) {
	r.table[grapheme] = code
	if _, exists := r.decode[code]; !exists {
		r.decode[code] = grapheme
	}
}

// SetEncoding overrides (or adds) the device byte for a grapheme. Per
// §4.C this never shrinks the table — it only adds or replaces entries.
func (r *Rom) SetEncoding(grapheme string, code byte) {
	r.set(grapheme, code)
}

// SetSpecialCharacterRange reserves a contiguous range of device byte
// codes (low..high, inclusive, at most 8 slots: CGRAM holds 8 user
// characters) as direct pass-through encodings for the Unicode code
// points in the same range. This is how a caller associates a
// newly-defined special character (§4.D) with a CGRAM slot 0..7.
func (r *Rom) SetSpecialCharacterRange(low, high byte) error {
	if high < low {
		return &EncodeError{Grapheme: "invalid special character range"}
	}
	if int(high)-int(low)+1 > 8 {
		return &EncodeError{Grapheme: "special character range exceeds 8 CGRAM slots"}
	}
	for code := low; ; code++ {
		r.set(string(rune(code)), code)
		if code == high {
			break
		}
	}
	return nil
}

// Encode converts text to device code points, scanning left to right and
// preferring the longest matching grapheme (up to maxGraphemeRunes code
// points) at each position before falling back to a single code point
// (§4.C).
func (r *Rom) Encode(text string, mode ErrorMode) ([]byte, error) {
	runes := []rune(text)
	out := make([]byte, 0, len(runes))

	for i := 0; i < len(runes); {
		matched := false
		maxLen := maxGraphemeRunes
		if remain := len(runes) - i; remain < maxLen {
			maxLen = remain
		}
		for l := maxLen; l >= 1; l-- {
			grapheme := string(runes[i : i+l])
			if code, ok := r.table[grapheme]; ok {
				out = append(out, code)
				i += l
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		switch mode {
		case Strict:
			return nil, &EncodeError{Grapheme: string(runes[i])}
		default:
			out = append(out, FallbackCode)
			i++
		}
	}

	return out, nil
}

// Decode is the best-effort inverse of Encode: each device byte maps back
// to the grapheme it was first registered under. Bytes with no known
// grapheme decode to the Unicode replacement character. Decode only
// round-trips for bytes whose encoding is a single unambiguous grapheme
// (§8 P5 scopes the round-trip property to that ASCII-compatible subset).
func (r *Rom) Decode(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if g, ok := r.decode[b]; ok {
			sb.WriteString(g)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
	}
	return sb.String()
}
