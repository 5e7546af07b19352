package rle

import "testing"

// bitGrid is a minimal two-state (b/o) grid used to exercise Encode
// and Decode without pulling in the real cell-grid implementation,
// mirroring how libconway's own tests drive CharGrid through a plain
// backing array.
type bitGrid struct {
	width, height int
	cells         [][]bool
}

func newBitGrid(width, height int) *bitGrid {
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &bitGrid{width: width, height: height, cells: cells}
}

func (g *bitGrid) grid() Grid {
	return Grid{
		Width:  g.width,
		Height: g.height,
		IsValid: func(ch rune) bool {
			return ch == 'b' || ch == 'o'
		},
		WriteAtPosition: func(col, row int, ch rune, _ *int) {
			g.cells[row][col] = ch == 'o'
		},
		GetRun: func(col, row int, _ *int) (int, rune) {
			want := g.cells[row][col]
			var ch rune = 'b'
			if want {
				ch = 'o'
			}
			n := 1
			for col+n < g.width && g.cells[row][col+n] == want {
				n++
			}
			return n, ch
		},
	}
}

func (g *bitGrid) set(col, row int) {
	g.cells[row][col] = true
}

func TestDecodeThenEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		width   int
		height  int
		pattern string
	}{
		{"glider", 3, 3, "bob$2bo$3o!"},
		{"block", 2, 2, "2o$2o!"},
		{"empty", 3, 3, "!"},
		{"trailing-blank-row", 3, 3, "3o$$!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newBitGrid(tc.width, tc.height)
			if err := Decode(tc.pattern, g.grid(), nil); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			g2 := newBitGrid(tc.width, tc.height)
			out := Encode(g.grid(), nil)
			if err := Decode(out, g2.grid(), nil); err != nil {
				t.Fatalf("Decode(Encode(...)): %v", err)
			}
			for r := 0; r < tc.height; r++ {
				for c := 0; c < tc.width; c++ {
					if g.cells[r][c] != g2.cells[r][c] {
						t.Fatalf("cell (%d,%d) differs after round trip: got %v want %v", c, r, g2.cells[r][c], g.cells[r][c])
					}
				}
			}
		})
	}
}

func TestEncodeSkipsTrailingBlankRun(t *testing.T) {
	g := newBitGrid(5, 1)
	g.set(0, 0)
	out := Encode(g.grid(), nil)
	if out != "o!" {
		t.Fatalf("got %q, want %q", out, "o!")
	}
}

func TestEncodeWrapsLongLines(t *testing.T) {
	g := newBitGrid(100, 1)
	for c := 0; c < 100; c += 2 {
		g.set(c, 0)
	}
	out := Encode(g.grid(), nil)
	for _, line := range splitCRLF(out) {
		if len(line) > lineWrap {
			t.Fatalf("line exceeds wrap column: %q (%d chars)", line, len(line))
		}
	}
}

func splitCRLF(s string) []string {
	var lines []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 2
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func TestDecodeRejectsOversizedRunLength(t *testing.T) {
	g := newBitGrid(1, 1)
	if err := Decode("50001o!", g.grid(), nil); err == nil {
		t.Fatal("expected error for run length exceeding maximum")
	}
}

func TestDecodeRejectsUnterminatedPattern(t *testing.T) {
	g := newBitGrid(3, 3)
	if err := Decode("3o", g.grid(), nil); err == nil {
		t.Fatal("expected error for pattern missing terminator")
	}
}

func TestDecodeRejectsInvalidCharacter(t *testing.T) {
	g := newBitGrid(3, 3)
	if err := Decode("3x!", g.grid(), nil); err == nil {
		t.Fatal("expected error for invalid cell character")
	}
}

func TestNoOpCharSkipsWithoutWriting(t *testing.T) {
	written := map[[2]int]rune{}
	g := Grid{
		Width:  3,
		Height: 1,
		IsValid: func(ch rune) bool {
			return ch == 'o' || ch == noOpChar
		},
		WriteAtPosition: func(col, row int, ch rune, _ *int) {
			written[[2]int{col, row}] = ch
		},
	}
	if err := Decode(`2"o!`, g, nil); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("expected exactly 1 write, got %d: %v", len(written), written)
	}
	if ch, ok := written[[2]int{2, 0}]; !ok || ch != 'o' {
		t.Fatalf("expected (2,0)='o', got %v", written)
	}
}

func TestCalcSize(t *testing.T) {
	w, h, err := CalcSize("bob$2bo$3o!")
	if err != nil {
		t.Fatal(err)
	}
	if w != 3 || h != 3 {
		t.Fatalf("got (%d,%d), want (3,3)", w, h)
	}
}

func TestParsePatternFile(t *testing.T) {
	contents := "#N Glider\n#C comment\nx = 3, y = 3, rule = B3/S23\nbob$2bo$3o!\n"
	pf, err := ParsePatternFile(contents)
	if err != nil {
		t.Fatalf("ParsePatternFile: %v", err)
	}
	if len(pf.CommentLines) != 2 {
		t.Fatalf("got %d comment lines, want 2", len(pf.CommentLines))
	}
	if pf.Header.Width != 3 || pf.Header.Height != 3 {
		t.Fatalf("got header %+v", pf.Header)
	}
	if pf.Header.Rule == nil || *pf.Header.Rule != "B3/S23" {
		t.Fatalf("got rule %v, want B3/S23", pf.Header.Rule)
	}
	if pf.Pattern != "bob$2bo$3o!" {
		t.Fatalf("got pattern %q", pf.Pattern)
	}
}

func TestParsePatternFileRejectsMissingHeader(t *testing.T) {
	if _, err := ParsePatternFile("bob$2bo$3o!\n"); err == nil {
		t.Fatal("expected error for missing header line")
	}
}

func TestParsePatternFileRejectsCommentAfterBody(t *testing.T) {
	contents := "x = 1, y = 1\no$\n#late comment\no!\n"
	if _, err := ParsePatternFile(contents); err == nil {
		t.Fatal("expected error for comment line after non-comment line")
	}
}

func TestParseHeaderLineRejectsMissingDimensions(t *testing.T) {
	if _, err := ParseHeaderLine("rule = B3/S23"); err == nil {
		t.Fatal("expected error for header line missing x/y")
	}
}
