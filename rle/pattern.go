package rle

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// lineWrap is the column at which Encode breaks an output line.
const lineWrap = 70

// blankChar is the convention-wide dead-cell character; runs of it
// at the end of a row are elided rather than emitted, since a row
// ending in blanks is indistinguishable from one that simply ends.
const blankChar = 'b'

// Encode walks g row-major and produces its RLE representation,
// terminated with "!". visibility selects a per-player view when
// non-nil.
func Encode(g Grid, visibility *int) string {
	var result strings.Builder
	outputCol := 0
	lineEndsBuffered := 0

	push := func(runLength int, ch rune) {
		var token string
		if runLength == 1 {
			token = string(ch)
		} else {
			token = strconv.Itoa(runLength) + string(ch)
		}
		if outputCol+len(token) > lineWrap {
			result.WriteString("\r\n")
			outputCol = 0
		}
		result.WriteString(token)
		outputCol += len(token)
	}

	for row := 0; row < g.Height; row++ {
		col := 0
		for col < g.Width {
			runLength, ch := g.GetRun(col, row, visibility)
			if ch == blankChar {
				if col+runLength < g.Width {
					if lineEndsBuffered > 0 {
						push(lineEndsBuffered, '$')
						lineEndsBuffered = 0
					}
					push(runLength, ch)
				}
			} else {
				if lineEndsBuffered > 0 {
					push(lineEndsBuffered, '$')
					lineEndsBuffered = 0
				}
				push(runLength, ch)
			}
			col += runLength
		}
		lineEndsBuffered++
	}
	push(1, '!')
	return result.String()
}

// Decode parses pattern and writes its cells into g via
// g.WriteAtPosition. It returns an error wrapping ErrPatternParse on
// any malformed input; g may already hold partial writes in that
// case.
func Decode(pattern string, g Grid, visibility *int) error {
	col, row := 0, 0
	var digits []rune
	complete := false

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if len(digits) > 0 && ch == '!' {
			return errors.Wrapf(ErrPatternParse, "number immediately followed by terminator at offset %d", i)
		}
		switch {
		case ch == '!':
			complete = true
		case ch == '$':
			n := 1
			if len(digits) > 0 {
				var err error
				n, err = digitsToNumber(digits)
				if err != nil {
					return err
				}
				digits = nil
			}
			col = 0
			row += n
		case ch == '\r' || ch == '\n':
			// ignore embedded line breaks from wrapped output
		case ch >= '0' && ch <= '9':
			digits = append(digits, ch)
		case ch == noOpChar || (g.IsValid != nil && g.IsValid(ch)):
			n := 1
			if len(digits) > 0 {
				var err error
				n, err = digitsToNumber(digits)
				if err != nil {
					return err
				}
				digits = nil
			}
			if ch != noOpChar {
				for k := 0; k < n; k++ {
					g.WriteAtPosition(col, row, ch, visibility)
					col++
				}
			} else {
				col += n
			}
		default:
			return errors.Wrapf(ErrPatternParse, "unrecognized character %q at offset %d", ch, i)
		}
		if complete {
			break
		}
	}
	if !complete {
		return errors.Wrap(ErrPatternParse, "premature termination: missing '!'")
	}
	return nil
}

func digitsToNumber(digits []rune) (int, error) {
	result := 0
	for _, d := range digits {
		result = result*10 + int(d-'0')
		if result > maxRunLength {
			return 0, errors.Wrapf(ErrPatternParse, "run length %q exceeds maximum of %d", string(digits), maxRunLength)
		}
	}
	return result, nil
}

// CalcSize returns the smallest (width, height) that fits pattern,
// by decoding it against a grid that only tracks the highest
// column/row it was asked to write.
func CalcSize(pattern string) (width, height int, err error) {
	var maxCol, maxRow int
	seen := false
	g := Grid{
		IsValid: func(rune) bool { return true },
		WriteAtPosition: func(col, row int, _ rune, _ *int) {
			seen = true
			if col > maxCol {
				maxCol = col
			}
			if row > maxRow {
				maxRow = row
			}
		},
	}
	if err := Decode(pattern, g, nil); err != nil {
		return 0, 0, err
	}
	if !seen {
		return 0, 0, nil
	}
	return maxCol + 1, maxRow + 1, nil
}
