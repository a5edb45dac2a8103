package client

// ErrorResponse is the standard API error shape
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SetCellResponse is the outcome of an edit. Code is 0 (ok) or 5 (value
// error) for committed edits.
type SetCellResponse struct {
	Cell         string   `json:"cell"`
	Status       string   `json:"status"`
	Code         int      `json:"code"`
	Value        string   `json:"value"`
	Recalculated []string `json:"recalculated"`
	Error        string   `json:"error,omitempty"`
}

// Committed reports whether the server applied the edit.
func (r *SetCellResponse) Committed() bool { return r.Code == 0 || r.Code == 5 }

// CellResponse is a single cell's value and formula
type CellResponse struct {
	Cell    string `json:"cell"`
	Value   string `json:"value"`
	Formula string `json:"formula,omitempty"`
}

// ViewportRow is one rendered row
type ViewportRow struct {
	Row   int      `json:"row"`
	Cells []string `json:"cells"`
}

// ViewportResponse is a rendered window of the sheet
type ViewportResponse struct {
	Top     int           `json:"top"`
	Left    int           `json:"left"`
	Columns []string      `json:"columns"`
	Rows    []ViewportRow `json:"rows"`
}
