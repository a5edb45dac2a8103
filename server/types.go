package server

import "github.com/witanlabs/gridcalc/internal"

// ErrorResponse is the standard API error shape
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SetCellRequest is the body of PUT /api/v1/cells/:cell
type SetCellRequest struct {
	Formula string `json:"formula"`
}

// SetCellResponse reports the outcome of an edit.
type SetCellResponse struct {
	Cell         string   `json:"cell"`
	Status       string   `json:"status"`
	Code         int      `json:"code"`
	Value        string   `json:"value"`
	Recalculated []string `json:"recalculated"`
	Error        string   `json:"error,omitempty"`
}

// CellResponse is the body of GET /api/v1/cells/:cell
type CellResponse struct {
	Cell    string `json:"cell"`
	Value   string `json:"value"`
	Formula string `json:"formula,omitempty"`
}

// ViewportRow is one rendered row of a viewport.
type ViewportRow struct {
	Row   int      `json:"row"`
	Cells []string `json:"cells"`
}

// ViewportResponse is the body of GET /api/v1/viewport
type ViewportResponse struct {
	Top     int           `json:"top"`
	Left    int           `json:"left"`
	Columns []string      `json:"columns"`
	Rows    []ViewportRow `json:"rows"`
}

// StreamReply is sent for every frame received on /api/v1/ws.
type StreamReply struct {
	Status  string                `json:"status"`
	Code    int                   `json:"code"`
	TopLeft string                `json:"top_left"`
	Changes []internal.CellChange `json:"changes"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}
