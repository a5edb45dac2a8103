package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/witanlabs/gridcalc/engine"
	"github.com/witanlabs/gridcalc/internal"
)

// window is the part of the sheet one stream connection is watching.
type window struct {
	top, left, height, width int
}

func (w window) render(sheet *engine.Sheet) internal.Window {
	return sheet.Viewport(w.top, w.left, w.height, w.width).Window()
}

// handleStream handles GET /api/v1/ws. Each text frame is one command line,
// either "CELL=formula" or "scroll_to CELL"; each reply lists the cells of
// the connection's window whose text changed.
func (s *Server) handleStream(c *gin.Context) {
	top, _ := queryInt(c, "top", 1)
	left, _ := queryInt(c, "left", 1)
	win := window{
		top:    min(max(top, 1), s.sheet.Rows()),
		left:   min(max(left, 1), s.sheet.Cols()),
		height: s.opts.WindowHeight,
		width:  s.opts.WindowWidth,
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "request_id", requestID(c), "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()
	s.logger.Info("stream connected", "request_id", requestID(c))
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.logger.Info("stream disconnected", "request_id", requestID(c), "error", err)
			}
			return
		}

		var reply StreamReply
		if typ != websocket.MessageText {
			reply = StreamReply{Status: engine.Unrecognized.String(), Code: int(engine.Unrecognized)}
		} else {
			reply = s.applyStreamLine(&win, string(data))
		}
		if reply.Changes == nil {
			reply.Changes = []internal.CellChange{}
		}

		payload, err := json.Marshal(reply)
		if err != nil {
			s.logger.Error("encoding stream reply", "error", err)
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			s.logger.Warn("failed to write stream reply", "request_id", requestID(c), "error", err)
			return
		}
	}
}

func (s *Server) applyStreamLine(win *window, line string) StreamReply {
	line = strings.TrimSpace(line)
	status := engine.OK

	s.mu.Lock()
	defer s.mu.Unlock()

	before := win.render(s.sheet)
	switch {
	case strings.HasPrefix(line, "scroll_to"):
		fields := strings.Fields(line)
		if len(fields) != 2 {
			status = engine.Unrecognized
			break
		}
		col, row, err := internal.ParseCell(fields[1])
		if err != nil || row > s.sheet.Rows() || col > s.sheet.Cols() {
			status = engine.InvalidCell
			break
		}
		win.top, win.left = row, col
	case strings.Contains(line, "="):
		cell, raw, _ := strings.Cut(line, "=")
		status = s.sheet.SetCellByName(strings.TrimSpace(cell), raw).Status
	default:
		status = engine.Unrecognized
	}
	after := win.render(s.sheet)
	changes := internal.DiffViewports(before, after)

	if s.logger.Enabled(context.Background(), slog.LevelDebug) && len(after.Cells) > 0 {
		h, w := len(after.Cells), len(after.Cells[0])
		s.logger.Debug("stream command", "status", status.String(),
			"window", internal.FormatRange(after.Left, after.Top, after.Left+w-1, after.Top+h-1),
			"diff", internal.FormatDiffSummary(len(changes), h*w))
	}

	return StreamReply{
		Status:  status.String(),
		Code:    int(status),
		TopLeft: internal.FormatCell(win.left, win.top),
		Changes: changes,
	}
}
