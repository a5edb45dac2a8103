package internal

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input                              string
		startCol, startRow, endCol, endRow int
		wantErr                            bool
	}{
		{"A1:Z50", 1, 1, 26, 50, false},
		{"A1:B2", 1, 1, 2, 2, false},
		{"C3:C3", 3, 3, 3, 3, false},
		// reversed range should normalize
		{"B2:A1", 1, 1, 2, 2, false},
		{"A3:C1", 1, 1, 3, 3, false},
		// missing colon
		{"A1", 0, 0, 0, 0, true},
		{"a1:b2", 1, 1, 2, 2, false},
		{"A1:", 0, 0, 0, 0, true},
		{"A1:B0", 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sc, sr, ec, er, err := ParseRange(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if sc != tt.startCol || sr != tt.startRow || ec != tt.endCol || er != tt.endRow {
				t.Errorf("ParseRange(%q) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					tt.input, sc, sr, ec, er,
					tt.startCol, tt.startRow, tt.endCol, tt.endRow)
			}
		})
	}
}

func TestColToLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, ""},
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
		{MaxCols, "ZZZ"},
	}
	for _, tt := range tests {
		if got := ColToLetter(tt.col); got != tt.want {
			t.Errorf("ColToLetter(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestLetterToCol(t *testing.T) {
	tests := []struct {
		letters string
		want    int
	}{
		{"A", 1},
		{"Z", 26},
		{"AA", 27},
		{"ZZZ", MaxCols},
		{"", 0},
		{"a", 1},
		{"zZz", MaxCols},
		{"A-", 0},
		{"A1", 0},
	}
	for _, tt := range tests {
		if got := LetterToCol(tt.letters); got != tt.want {
			t.Errorf("LetterToCol(%q) = %d, want %d", tt.letters, got, tt.want)
		}
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for col := 1; col <= MaxCols; col++ {
		if got := LetterToCol(ColToLetter(col)); got != col {
			t.Fatalf("round trip of %d gave %d (%q)", col, got, ColToLetter(col))
		}
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name     string
		col, row int
		wantErr  bool
	}{
		{"A1", 1, 1, false},
		{"B12", 2, 12, false},
		{"ZZZ999", MaxCols, 999, false},
		{" C3 ", 3, 3, false},
		{"A01", 0, 0, true},
		{"A0", 0, 0, true},
		{"b2", 2, 2, false},
		{"aB7", 28, 7, false},
		{"é1", 0, 0, true},
		{"12", 0, 0, true},
		{"AB", 0, 0, true},
		{"A1B", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, err := ParseCell(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrBadCellName) {
					t.Fatalf("ParseCell(%q) err = %v, want ErrBadCellName", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.name, err)
			}
			if col != tt.col || row != tt.row {
				t.Errorf("ParseCell(%q) = (%d, %d), want (%d, %d)", tt.name, col, row, tt.col, tt.row)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	got := FormatRange(1, 1, 26, 50)
	want := "A1:Z50"
	if got != want {
		t.Errorf("FormatRange = %q, want %q", got, want)
	}

	// Single cell
	got = FormatRange(3, 5, 3, 5)
	want = "C5"
	if got != want {
		t.Errorf("FormatRange single cell = %q, want %q", got, want)
	}
}
