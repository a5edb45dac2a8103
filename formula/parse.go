package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/witanlabs/gridcalc/internal"
)

var (
	// ErrUnrecognized is returned for text that fits no formula shape.
	ErrUnrecognized = errors.New("unrecognized formula")
	// ErrInvalidCell is returned for a reference that is shaped like a cell
	// name but cannot address any cell.
	ErrInvalidCell = errors.New("invalid cell reference")
	// ErrInvalidRange is returned when a range endpoint cannot address any
	// cell.
	ErrInvalidRange = errors.New("invalid range")
)

// Func names a range aggregate.
type Func string

const (
	FuncMin   Func = "MIN"
	FuncMax   Func = "MAX"
	FuncAvg   Func = "AVG"
	FuncSum   Func = "SUM"
	FuncStdev Func = "STDEV"
)

const funcSleep = "SLEEP"

var rangeFuncs = map[string]Func{
	string(FuncMin):   FuncMin,
	string(FuncMax):   FuncMax,
	string(FuncAvg):   FuncAvg,
	string(FuncSum):   FuncSum,
	string(FuncStdev): FuncStdev,
}

// Expr is a parsed formula. The concrete types are Literal, Ref, Binary,
// RangeCall and Sleep.
type Expr interface {
	// String is the canonical formula text.
	String() string
	// Refs lists the single cells the formula reads, without duplicates.
	Refs() []Coord
	// Range returns the rectangle the formula aggregates over, if any.
	Range() (Rect, bool)
}

// Operand is one side of a binary expression or the argument of SLEEP.
type Operand struct {
	IsRef bool
	Lit   int32
	Cell  Coord
}

func (o Operand) String() string {
	if o.IsRef {
		return o.Cell.String()
	}
	return strconv.FormatInt(int64(o.Lit), 10)
}

type Literal struct{ N int32 }

type Ref struct{ Cell Coord }

type Binary struct {
	Op          byte
	Left, Right Operand
}

type RangeCall struct {
	Func Func
	Rect Rect
}

type Sleep struct{ Arg Operand }

func (e Literal) String() string { return strconv.FormatInt(int64(e.N), 10) }
func (e Literal) Refs() []Coord { return nil }
func (e Literal) Range() (Rect, bool) { return Rect{}, false }

func (e Ref) String() string { return e.Cell.String() }
func (e Ref) Refs() []Coord { return []Coord{e.Cell} }
func (e Ref) Range() (Rect, bool) { return Rect{}, false }

func (e Binary) String() string { return e.Left.String() + string(e.Op) + e.Right.String() }

func (e Binary) Refs() []Coord {
	var refs []Coord
	if e.Left.IsRef {
		refs = append(refs, e.Left.Cell)
	}
	if e.Right.IsRef && (!e.Left.IsRef || e.Right.Cell != e.Left.Cell) {
		refs = append(refs, e.Right.Cell)
	}
	return refs
}

func (e Binary) Range() (Rect, bool) { return Rect{}, false }

func (e RangeCall) String() string { return string(e.Func) + "(" + e.Rect.String() + ")" }
func (e RangeCall) Refs() []Coord { return nil }
func (e RangeCall) Range() (Rect, bool) { return e.Rect, true }

func (e Sleep) String() string { return funcSleep + "(" + e.Arg.String() + ")" }

func (e Sleep) Refs() []Coord {
	if e.Arg.IsRef {
		return []Coord{e.Arg.Cell}
	}
	return nil
}

func (e Sleep) Range() (Rect, bool) { return Rect{}, false }

// Parse classifies formula text. A leading "=" and surrounding whitespace
// are ignored. References are checked only against the largest grid; the
// caller validates them against its own bounds.
func Parse(text string) (Expr, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "="))
	if s == "" {
		return nil, fmt.Errorf("%w: empty formula", ErrUnrecognized)
	}

	if isLiteralShape(s) {
		n, err := parseLiteral(s)
		if err != nil {
			return nil, err
		}
		return Literal{N: n}, nil
	}
	if _, _, ok := internal.SplitCell(s); ok {
		c, err := parseRef(s)
		if err != nil {
			return nil, err
		}
		return Ref{Cell: c}, nil
	}
	if open := strings.IndexByte(s, '('); open > 0 && s[len(s)-1] == ')' {
		return parseCall(s[:open], s[open+1:len(s)-1])
	}
	return parseBinary(s)
}

func parseCall(name, inner string) (Expr, error) {
	name = strings.TrimSpace(name)
	inner = strings.TrimSpace(inner)

	if name == funcSleep {
		if strings.ContainsAny(inner, ":()") {
			return nil, fmt.Errorf("%w: SLEEP takes a number or a cell, got %q", ErrUnrecognized, inner)
		}
		arg, err := parseOperand(inner)
		if err != nil {
			return nil, err
		}
		return Sleep{Arg: arg}, nil
	}

	fn, ok := rangeFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", ErrUnrecognized, name)
	}
	from, to, ok := strings.Cut(inner, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %s needs a range, got %q", ErrUnrecognized, fn, inner)
	}
	a, err := parseRangeEnd(from)
	if err != nil {
		return nil, err
	}
	b, err := parseRangeEnd(to)
	if err != nil {
		return nil, err
	}
	return RangeCall{Func: fn, Rect: NewRect(a, b)}, nil
}

func parseRangeEnd(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	if _, _, ok := internal.SplitCell(s); !ok {
		return Coord{}, fmt.Errorf("%w: range endpoint %q", ErrUnrecognized, s)
	}
	c, err := parseRef(s)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: endpoint %q", ErrInvalidRange, s)
	}
	return c, nil
}

// parseBinary splits "<operand><op><operand>". The left operand may carry a
// sign, so the operator is the first +-*/ after the left operand's
// alphanumeric run.
func parseBinary(s string) (Expr, error) {
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	for i < len(s) && isAlnum(s[i]) {
		i++
	}
	left := s[:i]
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i >= len(s) || !isOperator(s[i]) {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	op := s[i]
	right := s[i+1:]

	l, err := parseOperand(left)
	if err != nil {
		return nil, err
	}
	r, err := parseOperand(right)
	if err != nil {
		return nil, err
	}
	return Binary{Op: op, Left: l, Right: r}, nil
}

func parseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Operand{}, fmt.Errorf("%w: missing operand", ErrUnrecognized)
	case isLiteralShape(s):
		n, err := parseLiteral(s)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Lit: n}, nil
	default:
		if _, _, ok := internal.SplitCell(s); !ok {
			return Operand{}, fmt.Errorf("%w: operand %q", ErrUnrecognized, s)
		}
		c, err := parseRef(s)
		if err != nil {
			return Operand{}, err
		}
		return Operand{IsRef: true, Cell: c}, nil
	}
}

// parseRef decodes a string already known to be letters followed by digits.
func parseRef(s string) (Coord, error) {
	col, row, err := internal.ParseCell(s)
	if err != nil || col > internal.MaxCols || row > internal.MaxRows {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	return Coord{Col: col, Row: row}, nil
}

func parseLiteral(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: literal %q out of range", ErrUnrecognized, s)
	}
	return int32(n), nil
}

// isLiteralShape reports whether s is an optional sign followed by digits.
func isLiteralShape(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}
