package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/witanlabs/gridcalc/engine"
	"github.com/witanlabs/gridcalc/formula"
	"github.com/witanlabs/gridcalc/internal"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Rows: s.sheet.Rows(), Cols: s.sheet.Cols()})
}

// handleGetCell handles GET /api/v1/cells/:cell
func (s *Server) handleGetCell(c *gin.Context) {
	name := c.Param("cell")
	coord, ok := s.parseCell(c, name)
	if !ok {
		return
	}

	var resp CellResponse
	s.withSheet(func(sheet *engine.Sheet) {
		f, _ := sheet.Formula(coord)
		resp = CellResponse{Cell: coord.String(), Value: sheet.Value(coord).String(), Formula: f}
	})
	c.JSON(http.StatusOK, resp)
}

// handleSetCell handles PUT /api/v1/cells/:cell. A rejected edit is 422 with
// the same body shape as a committed one.
func (s *Server) handleSetCell(c *gin.Context) {
	var req SetCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_ARG", "request body must be {\"formula\": \"...\"}")
		return
	}

	var res engine.Result
	s.withSheet(func(sheet *engine.Sheet) {
		res = sheet.SetCellByName(c.Param("cell"), req.Formula)
	})

	resp := SetCellResponse{
		Cell:         c.Param("cell"),
		Status:       res.Status.String(),
		Code:         int(res.Status),
		Value:        res.Value.String(),
		Recalculated: make([]string, 0, len(res.Recalculated)),
	}
	for _, rc := range res.Recalculated {
		resp.Recalculated = append(resp.Recalculated, rc.String())
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}

	status := http.StatusOK
	if !res.Status.Committed() {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Debug("cell edit", "request_id", requestID(c), "cell", resp.Cell,
		"status", resp.Status, "recalculated", len(resp.Recalculated))
	c.JSON(status, resp)
}

// handleViewport handles GET /api/v1/viewport?top=&left=&height=&width=, or
// ?range=B2:D9 in place of the four numbers.
func (s *Server) handleViewport(c *gin.Context) {
	if rng := c.Query("range"); rng != "" {
		startCol, startRow, endCol, endRow, err := internal.ParseRange(rng)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "ADDRESS_PARSE_ERROR", err.Error())
			return
		}
		var v engine.Viewport
		s.withSheet(func(sheet *engine.Sheet) {
			v = sheet.Viewport(startRow, startCol, endRow-startRow+1, endCol-startCol+1)
		})
		c.JSON(http.StatusOK, viewportResponse(v))
		return
	}

	top, ok1 := queryInt(c, "top", 1)
	left, ok2 := queryInt(c, "left", 1)
	height, ok3 := queryInt(c, "height", s.opts.WindowHeight)
	width, ok4 := queryInt(c, "width", s.opts.WindowWidth)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		abortWithError(c, http.StatusBadRequest, "INVALID_ARG", "top, left, height and width must be integers")
		return
	}

	var v engine.Viewport
	s.withSheet(func(sheet *engine.Sheet) {
		v = sheet.Viewport(top, left, height, width)
	})
	c.JSON(http.StatusOK, viewportResponse(v))
}

func viewportResponse(v engine.Viewport) ViewportResponse {
	resp := ViewportResponse{
		Top:     v.Top,
		Left:    v.Left,
		Columns: v.Columns,
		Rows:    make([]ViewportRow, len(v.Rows)),
	}
	for i, row := range v.Rows {
		resp.Rows[i] = ViewportRow{Row: row, Cells: v.Cells[i]}
	}
	return resp
}

// parseCell resolves a cell name and writes the error response itself.
func (s *Server) parseCell(c *gin.Context, name string) (formula.Coord, bool) {
	col, row, err := internal.ParseCell(name)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "ADDRESS_PARSE_ERROR", err.Error())
		return formula.Coord{}, false
	}
	coord := formula.Coord{Col: col, Row: row}
	if !s.sheet.Contains(coord) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND",
			"cell "+name+" is outside the "+strconv.Itoa(s.sheet.Rows())+"x"+strconv.Itoa(s.sheet.Cols())+" grid")
		return formula.Coord{}, false
	}
	return coord, true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}
