package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/witanlabs/gridcalc/formula"
	"github.com/witanlabs/gridcalc/internal"
)

// ErrInvalidDimensions is returned by New for a grid outside
// 1..999 rows or 1..18278 columns.
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Status is the outcome of an edit.
type Status int

const (
	OK Status = iota
	InvalidCell
	InvalidRange
	Unrecognized
	Circular
	ValueError
)

var statusLabels = [...]string{
	OK:           "ok",
	InvalidCell:  "Invalid cell",
	InvalidRange: "Invalid range",
	Unrecognized: "unrecognized cmd",
	Circular:     "Circular dependency",
	ValueError:   "Division_by_zero",
}

var statusKeys = [...]string{
	OK:           "ok",
	InvalidCell:  "invalid_cell",
	InvalidRange: "invalid_range",
	Unrecognized: "unrecognized",
	Circular:     "circular",
	ValueError:   "value_error",
}

// String is the label shown at the prompt.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusLabels) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusLabels[s]
}

// Key is a stable identifier suitable for metric labels.
func (s Status) Key() string {
	if s < 0 || int(s) >= len(statusKeys) {
		return "unknown"
	}
	return statusKeys[s]
}

// Committed reports whether the edit was applied.
func (s Status) Committed() bool { return s == OK || s == ValueError }

// Result describes one SetCell call.
type Result struct {
	Status Status
	Cell   formula.Coord
	// Value is the edited cell's value after the call.
	Value formula.Value
	// Recalculated lists the downstream cells recomputed, in evaluation
	// order. Empty for rejected edits.
	Recalculated []formula.Coord
	// Err is the cause of a rejection.
	Err error
}

// Sheet is a grid of cells with a live dependency graph. It is not safe for
// concurrent use.
type Sheet struct {
	dims
	store  *store
	graph  *graph
	logger *slog.Logger
	sleep  func(time.Duration)
}

// Option configures a Sheet.
type Option func(*Sheet)

// WithLogger sets the logger for per-edit debug records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sheet) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSleeper replaces time.Sleep as the SLEEP implementation.
func WithSleeper(fn func(time.Duration)) Option {
	return func(s *Sheet) {
		s.sleep = fn
	}
}

// New creates a rows x cols grid with every cell 0.
func New(rows, cols int, opts ...Option) (*Sheet, error) {
	if rows < 1 || rows > internal.MaxRows || cols < 1 || cols > internal.MaxCols {
		return nil, fmt.Errorf("%w: %dx%d (rows must be 1-%d, columns 1-%d)",
			ErrInvalidDimensions, rows, cols, internal.MaxRows, internal.MaxCols)
	}
	d := dims{rows: rows, cols: cols}
	s := &Sheet{
		dims:   d,
		store:  newStore(d),
		graph:  newGraph(d),
		logger: slog.Default(),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Sheet) Rows() int { return s.rows }
func (s *Sheet) Cols() int { return s.cols }

// Value returns the value of c, or 0 outside the grid.
func (s *Sheet) Value(c formula.Coord) formula.Value { return s.store.lookup(c) }

// Formula returns the canonical formula text of c, if one was ever set.
func (s *Sheet) Formula(c formula.Coord) (string, bool) {
	if !s.contains(c) {
		return "", false
	}
	expr, ok := s.store.exprs[s.index(c)]
	if !ok {
		return "", false
	}
	return expr.String(), true
}

// Contains reports whether c addresses a cell of this grid.
func (s *Sheet) Contains(c formula.Coord) bool { return s.contains(c) }

// SetCellByName is SetCell with the target given as a cell name like "B3".
func (s *Sheet) SetCellByName(name, raw string) Result {
	col, row, err := internal.ParseCell(name)
	if err != nil {
		res := Result{Status: InvalidCell, Err: err}
		observe(res, 0)
		return res
	}
	return s.SetCell(formula.Coord{Col: col, Row: row}, raw)
}

// SetCell assigns raw to c and recomputes everything downstream. A rejected
// edit leaves the sheet unchanged.
func (s *Sheet) SetCell(c formula.Coord, raw string) Result {
	start := time.Now()
	res := s.setCell(c, raw)
	elapsed := time.Since(start)
	observe(res, elapsed.Seconds())

	if res.Status.Committed() {
		s.logger.Debug("cell committed",
			"cell", c.String(), "formula", raw, "value", res.Value.String(),
			"status", res.Status.String(), "recalculated", len(res.Recalculated),
			"duration", elapsed)
	} else {
		s.logger.Debug("edit rejected",
			"cell", c.String(), "formula", raw, "status", res.Status.String(), "error", res.Err)
	}
	return res
}

func (s *Sheet) setCell(c formula.Coord, raw string) Result {
	res := Result{Cell: c}
	if !s.contains(c) {
		res.Status = InvalidCell
		res.Err = fmt.Errorf("%w: %s is outside the %dx%d grid", formula.ErrInvalidCell, c, s.rows, s.cols)
		return res
	}

	expr, err := formula.Parse(raw)
	if err == nil {
		err = s.validate(expr)
	}
	if err != nil {
		res.Status = classify(err)
		res.Err = err
		res.Value = s.store.lookup(c)
		return res
	}

	idx := s.index(c)
	snap := s.graph.snapshot(idx)
	s.install(idx, expr)
	if s.graph.wouldCycle(idx) {
		s.graph.restore(idx, snap)
		res.Status = Circular
		res.Err = fmt.Errorf("%s=%s would depend on itself", c, expr)
		res.Value = s.store.lookup(c)
		return res
	}

	s.store.exprs[idx] = expr
	s.store.values[idx] = formula.Evaluate(expr, s.store.lookup, s.sleep)
	res.Value = s.store.values[idx]
	res.Recalculated = s.recalculate(idx)

	res.Status = OK
	if res.Value.Err {
		res.Status = ValueError
	}
	return res
}

// validate checks every reference of expr against the grid bounds.
func (s *Sheet) validate(expr formula.Expr) error {
	for _, ref := range expr.Refs() {
		if !s.contains(ref) {
			return fmt.Errorf("%w: %s is outside the %dx%d grid", formula.ErrInvalidCell, ref, s.rows, s.cols)
		}
	}
	if r, ok := expr.Range(); ok {
		if !s.contains(r.Min) || !s.contains(r.Max) {
			return fmt.Errorf("%w: %s is outside the %dx%d grid", formula.ErrInvalidRange, r, s.rows, s.cols)
		}
	}
	return nil
}

// install replaces idx's outgoing edges and range record with expr's.
func (s *Sheet) install(idx int, expr formula.Expr) {
	s.graph.removeAllPrecedents(idx)
	s.graph.clearRange(idx)
	for _, ref := range expr.Refs() {
		s.graph.addEdge(s.index(ref), idx)
	}
	if r, ok := expr.Range(); ok {
		s.graph.setRange(idx, r)
	}
}

// recalculate re-evaluates every cell downstream of edited exactly once, in
// topological order.
func (s *Sheet) recalculate(edited int) []formula.Coord {
	order := s.graph.recalcOrder(edited)
	var done []formula.Coord
	for _, idx := range order[1:] {
		expr, ok := s.store.exprs[idx]
		if !ok {
			continue
		}
		s.store.values[idx] = formula.Evaluate(expr, s.store.lookup, s.sleep)
		done = append(done, s.coord(idx))
	}
	return done
}

func classify(err error) Status {
	switch {
	case errors.Is(err, formula.ErrInvalidRange):
		return InvalidRange
	case errors.Is(err, formula.ErrInvalidCell):
		return InvalidCell
	default:
		return Unrecognized
	}
}
