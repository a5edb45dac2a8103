package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Grid limits shared by the engine and every front end.
const (
	MaxRows = 999
	MaxCols = 18278 // ZZZ
)

// maxLetters bounds the column run so letterToCol cannot overflow.
const maxLetters = 7

var (
	ErrBadCellName = errors.New("invalid cell name")
	ErrBadRange    = errors.New("invalid range")
)

// ColToLetter converts a 1-indexed column number to Excel letter(s)
func ColToLetter(col int) string {
	if col <= 0 {
		return ""
	}
	var buf [maxLetters]byte
	i := len(buf)
	for col > 0 && i > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// LetterToCol converts Excel letters to a 1-indexed column number, ignoring
// case. It returns 0 when letters is empty, too long, or contains anything
// but A-Z.
func LetterToCol(letters string) int {
	if letters == "" || len(letters) > maxLetters {
		return 0
	}
	col := 0
	for i := 0; i < len(letters); i++ {
		c := upper(letters[i])
		if c < 'A' || c > 'Z' {
			return 0
		}
		col = col*26 + int(c-'A'+1)
	}
	return col
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// SplitCell splits a name like "AB12" into its letter run and digit run.
// ok is false unless the name is exactly ASCII letters (either case)
// followed by digits.
func SplitCell(name string) (letters, digits string, ok bool) {
	i := 0
	for i < len(name) {
		if c := upper(name[i]); c < 'A' || c > 'Z' {
			break
		}
		i++
	}
	if i == 0 || i == len(name) {
		return "", "", false
	}
	letters, digits = name[:i], name[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", "", false
		}
	}
	return letters, digits, true
}

// ParseCell parses a cell name like "B12" or "b12" into (col, row),
// 1-indexed. The row must not start with 0. Bounds are not checked beyond what fits in an
// int; callers validate against the grid.
func ParseCell(name string) (col, row int, err error) {
	letters, digits, ok := SplitCell(strings.TrimSpace(name))
	if !ok || digits[0] == '0' {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCellName, name)
	}
	col = LetterToCol(letters)
	if col == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCellName, name)
	}
	row, err = strconv.Atoi(digits)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCellName, name)
	}
	return col, row, nil
}

// ParseRange parses "A1:C3" and returns (startCol, startRow, endCol, endRow)
// normalized so that start <= end on both axes.
func ParseRange(address string) (startCol, startRow, endCol, endRow int, err error) {
	fromRef, toRef, hasColon := strings.Cut(address, ":")
	if !hasColon {
		return 0, 0, 0, 0, fmt.Errorf("%w: missing ':' in %q", ErrBadRange, address)
	}

	startCol, startRow, err = ParseCell(fromRef)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid start of range %q: %w", fromRef, err)
	}
	endCol, endRow, err = ParseCell(toRef)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid end of range %q: %w", toRef, err)
	}

	// Normalize order
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}

	return startCol, startRow, endCol, endRow, nil
}

// FormatCell builds a cell name like "B12"
func FormatCell(col, row int) string {
	return ColToLetter(col) + strconv.Itoa(row)
}

// FormatRange builds "A1:C3", or a single cell name when both ends match.
func FormatRange(startCol, startRow, endCol, endRow int) string {
	from := FormatCell(startCol, startRow)
	to := FormatCell(endCol, endRow)
	if from == to {
		return from
	}
	return from + ":" + to
}
