package formula

import (
	"math"
	"time"
)

// Lookup returns the current value of a cell.
type Lookup func(Coord) Value

// Evaluate computes expr against lookup. Arithmetic is carried in int64 and
// any result outside int32 is the error marker, as is division by zero and
// any error operand. sleep may be nil, in which case SLEEP does not block.
func Evaluate(expr Expr, lookup Lookup, sleep func(time.Duration)) Value {
	switch e := expr.(type) {
	case Literal:
		return Int(e.N)
	case Ref:
		return lookup(e.Cell)
	case Binary:
		return evalBinary(e, lookup)
	case RangeCall:
		return evalRange(e, lookup)
	case Sleep:
		v := operand(e.Arg, lookup)
		if v.Err {
			return Error
		}
		if v.Num > 0 && sleep != nil {
			sleep(time.Duration(v.Num) * time.Second)
		}
		return v
	default:
		return Error
	}
}

func operand(o Operand, lookup Lookup) Value {
	if o.IsRef {
		return lookup(o.Cell)
	}
	return Int(o.Lit)
}

func evalBinary(e Binary, lookup Lookup) Value {
	l, r := operand(e.Left, lookup), operand(e.Right, lookup)
	if l.Err || r.Err {
		return Error
	}
	a, b := int64(l.Num), int64(r.Num)
	switch e.Op {
	case '+':
		return fit(a + b)
	case '-':
		return fit(a - b)
	case '*':
		return fit(a * b)
	case '/':
		if b == 0 {
			return Error
		}
		return fit(a / b)
	}
	return Error
}

// evalRange folds the rectangle in one pass without buffering its cells, so
// a whole-sheet range costs no memory. STDEV reads the cells a second time
// for the squared deviations.
func evalRange(e RangeCall, lookup Lookup) Value {
	n := int64(e.Rect.Len())
	if n <= 0 {
		return Int(0)
	}

	var total int64
	lo, hi := int64(math.MaxInt64), int64(math.MinInt64)
	if !each(e.Rect, lookup, func(v int64) {
		total += v
		lo = min(lo, v)
		hi = max(hi, v)
	}) {
		return Error
	}

	switch e.Func {
	case FuncSum:
		return fit(total)
	case FuncMin:
		return fit(lo)
	case FuncMax:
		return fit(hi)
	case FuncAvg:
		if fit(total).Err {
			return Error
		}
		return fit(divRound(total, n))
	case FuncStdev:
		if n <= 1 {
			return Int(0)
		}
		mean := float64(total) / float64(n)
		var sq float64
		each(e.Rect, lookup, func(v int64) {
			d := float64(v) - mean
			sq += d * d
		})
		return fit(int64(math.Round(math.Sqrt(sq / float64(n)))))
	}
	return Error
}

// each calls fn with every value of r in row-major order. It stops and
// returns false at the first ERR member.
func each(r Rect, lookup Lookup, fn func(int64)) bool {
	for row := r.Min.Row; row <= r.Max.Row; row++ {
		for col := r.Min.Col; col <= r.Max.Col; col++ {
			v := lookup(Coord{Col: col, Row: row})
			if v.Err {
				return false
			}
			fn(int64(v.Num))
		}
	}
	return true
}

// divRound divides with the quotient rounded half away from zero. d > 0.
func divRound(n, d int64) int64 {
	q, r := n/d, n%d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

func fit(n int64) Value {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Error
	}
	return Int(int32(n))
}
