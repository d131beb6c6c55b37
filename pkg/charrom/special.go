package charrom

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Special is a special-character bitmap: exactly Rows by Cols binary
// pixels (§4.D). It is backed by a dense matrix of 0/1 float64 entries
// rather than a hand-rolled 2D bool slice, the way
// github.com/CK6170/Calrunrilla-go represents its calibration grids —
// RawRowView gives row-major pixel access for free when serialising.
type Special struct {
	pixels *mat.Dense
}

// DimensionError reports a bitmap whose shape does not match the bound
// device's character cell.
type DimensionError struct {
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf(
		"special character is %dx%d, device wants %dx%d",
		e.GotRows, e.GotCols, e.WantRows, e.WantCols,
	)
}

// FromText parses a special character from a text block: one line per
// row, space is an off pixel and anything else is on. Leading and
// trailing blank lines are stripped; short rows are right-padded with
// off pixels (§4.D).
func FromText(text string) *Special {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]

	cols := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > cols {
			cols = n
		}
	}

	rows := len(lines)
	pixels := mat.NewDense(rows, cols, nil)
	for r, l := range lines {
		runes := []rune(l)
		for c := 0; c < cols; c++ {
			if c < len(runes) && runes[c] != ' ' {
				pixels.Set(r, c, 1)
			}
		}
	}

	return &Special{pixels: pixels}
}

// FromBitmap builds a rows-by-cols Special directly, bypassing text
// parsing: set reports whether the pixel at (row, col) is on.
func FromBitmap(rows, cols int, set func(row, col int) bool) *Special {
	pixels := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if set(r, c) {
				pixels.Set(r, c, 1)
			}
		}
	}
	return &Special{pixels: pixels}
}

// Rows and Cols report the bitmap's dimensions.
func (s *Special) Rows() int { r, _ := s.pixels.Dims(); return r }
func (s *Special) Cols() int { _, c := s.pixels.Dims(); return c }

// Validate checks the bitmap's shape against a device's character cell
// (§4.D: height must equal character_height, every row length must equal
// character_width).
func (s *Special) Validate(characterHeight, characterWidth int) error {
	rows, cols := s.pixels.Dims()
	if rows != characterHeight || cols != characterWidth {
		return &DimensionError{
			WantRows: characterHeight, WantCols: characterWidth,
			GotRows: rows, GotCols: cols,
		}
	}
	return nil
}

// Bytes serialises the bitmap: one byte per row, pixels packed MSB-first
// within the low characterWidth bits of the byte (the high bits are
// always zero for the CFA533/CFA633's 6-pixel-wide cells).
func (s *Special) Bytes() []byte {
	rows, cols := s.pixels.Dims()
	out := make([]byte, rows)
	for r := 0; r < rows; r++ {
		row := s.pixels.RawRowView(r)
		var b byte
		for c := 0; c < cols; c++ {
			b <<= 1
			if row[c] != 0 {
				b |= 1
			}
		}
		out[r] = b
	}
	return out
}
