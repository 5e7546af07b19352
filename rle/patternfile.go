package rle

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// HeaderLine is the "x = W, y = H[, rule = R]" line of a pattern
// file.
type HeaderLine struct {
	Width  int
	Height int
	Rule   *string
}

// PatternFile is the parsed contents of an RLE pattern file: optional
// leading comments, one header line, then the pattern body.
type PatternFile struct {
	CommentLines []string
	Header       HeaderLine
	Pattern      string
}

// ParseHeaderLine parses a single "x = W, y = H[, rule = R]" line.
// Terms are comma-separated and whitespace around '=' is ignored.
func ParseHeaderLine(line string) (HeaderLine, error) {
	terms := strings.Split(line, ",")
	fields := make(map[string]string, len(terms))
	for _, term := range terms {
		parts := strings.SplitN(term, "=", 2)
		if len(parts) != 2 {
			return HeaderLine{}, errors.Wrapf(ErrPatternParse, "unexpected term in header line: %q", term)
		}
		fields[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	xStr, hasX := fields["x"]
	yStr, hasY := fields["y"]
	if !hasX || !hasY {
		return HeaderLine{}, errors.Wrapf(ErrPatternParse, "header line missing x and/or y: %q", line)
	}
	width, err := strconv.Atoi(xStr)
	if err != nil {
		return HeaderLine{}, errors.Wrapf(ErrPatternParse, "parsing x: %v", err)
	}
	height, err := strconv.Atoi(yStr)
	if err != nil {
		return HeaderLine{}, errors.Wrapf(ErrPatternParse, "parsing y: %v", err)
	}
	var rule *string
	if r, ok := fields["rule"]; ok {
		rule = &r
	}
	return HeaderLine{Width: width, Height: height, Rule: rule}, nil
}

// ParsePatternFile parses the full contents of an RLE pattern file:
// zero or more "#"-comment lines, then exactly one header line, then
// pattern lines up to and including the terminating "!".
func ParsePatternFile(contents string) (PatternFile, error) {
	var commentLines []string
	commentsEnded := false
	var header *HeaderLine
	var patternLines []string

	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "#") {
			if commentsEnded {
				return PatternFile{}, errors.Wrap(ErrPatternParse, "comment line after a non-comment line")
			}
			commentLines = append(commentLines, line)
			continue
		}
		commentsEnded = true

		if header == nil {
			h, err := ParseHeaderLine(line)
			if err != nil {
				return PatternFile{}, err
			}
			header = &h
			continue
		}

		if idx := strings.IndexByte(line, '!'); idx >= 0 {
			patternLines = append(patternLines, line[:idx+1])
			break
		}
		patternLines = append(patternLines, line)
	}

	if header == nil {
		return PatternFile{}, errors.Wrap(ErrPatternParse, "missing header line")
	}
	if len(patternLines) == 0 {
		return PatternFile{}, errors.Wrap(ErrPatternParse, "missing pattern lines")
	}

	return PatternFile{
		CommentLines: commentLines,
		Header:       *header,
		Pattern:      strings.Join(patternLines, ""),
	}, nil
}

// ToGrid decodes the file's pattern into g.
func (pf PatternFile) ToGrid(g Grid, visibility *int) error {
	return Decode(pf.Pattern, g, visibility)
}
