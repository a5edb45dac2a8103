// Package repl implements the interactive command loop over a sheet.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/witanlabs/gridcalc/engine"
	"github.com/witanlabs/gridcalc/internal"
)

// DefaultWindow is the viewport size used when none is configured.
const DefaultWindow = 10

// Session reads commands line by line and applies them to one sheet.
type Session struct {
	sheet  *engine.Sheet
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time

	height, width int
	top, left     int
	output        bool
	status        engine.Status
	elapsed       time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithWindow sets the viewport size. Non-positive values keep the default.
func WithWindow(height, width int) Option {
	return func(s *Session) {
		if height > 0 {
			s.height = height
		}
		if width > 0 {
			s.width = width
		}
	}
}

// WithClock replaces time.Now for the elapsed time shown at the prompt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session positioned at A1 with output enabled.
func New(sheet *engine.Sheet, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		sheet:  sheet,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: slog.Default(),
		now:    time.Now,
		height: DefaultWindow,
		width:  DefaultWindow,
		top:    1,
		left:   1,
		output: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status is the outcome of the last command.
func (s *Session) Status() engine.Status { return s.status }

// TopLeft is the cell at the top-left corner of the viewport.
func (s *Session) TopLeft() string { return internal.FormatCell(s.left, s.top) }

// Run prints the grid and processes commands until q, end of input, or ctx
// is cancelled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.display(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(s.out, "[%.1f] (%s) > ", s.elapsed.Seconds(), s.status); err != nil {
			return err
		}
		if !s.in.Scan() {
			return s.in.Err()
		}
		start := s.now()
		quit, err := s.Exec(s.in.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		s.elapsed = s.now().Sub(start)
	}
}

// Exec applies one command line and prints the grid when output is enabled.
// quit is true for q or Q.
func (s *Session) Exec(line string) (quit bool, err error) {
	line = strings.TrimRight(line, " \t\r\n")
	s.status = engine.OK

	switch {
	case line == "q" || line == "Q":
		return true, nil
	case line == "disable_output":
		s.output = false
		return false, nil
	case line == "enable_output":
		s.output = true
	case strings.HasPrefix(line, "scroll_to"):
		s.scrollTo(strings.Fields(line))
	case line == "w":
		s.top = max(s.top-s.height, 1)
	case line == "s":
		s.top = scrollForward(s.top, s.height, s.sheet.Rows())
	case line == "a":
		s.left = max(s.left-s.width, 1)
	case line == "d":
		s.left = scrollForward(s.left, s.width, s.sheet.Cols())
	case strings.Contains(line, "="):
		cell, raw, _ := strings.Cut(line, "=")
		res := s.sheet.SetCellByName(strings.TrimSpace(cell), raw)
		s.status = res.Status
		if res.Err != nil {
			s.logger.Debug("edit rejected", "line", line, "error", res.Err)
		}
	default:
		s.status = engine.Unrecognized
	}

	return false, s.display()
}

func (s *Session) scrollTo(fields []string) {
	if len(fields) < 2 {
		return
	}
	col, row, err := internal.ParseCell(fields[1])
	if err != nil || row > s.sheet.Rows() || col > s.sheet.Cols() {
		s.status = engine.InvalidCell
		return
	}
	s.top, s.left = row, col
}

// scrollForward advances pos by one window, stopping so that the last full
// window is shown.
func scrollForward(pos, window, limit int) int {
	switch {
	case limit <= window:
		return 1
	case pos-1+2*window < limit:
		return pos + window
	default:
		return limit - window + 1
	}
}

func (s *Session) display() error {
	if !s.output {
		return nil
	}
	return Render(s.out, s.sheet.Viewport(s.top, s.left, s.height, s.width))
}
