package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// SetCell assigns formula to cell via PUT /api/v1/cells/{cell}. A rejected
// edit is not an error: the response carries the rejection status.
//
// The edit is only resent when the server cannot have received it. If the
// connection fails after the request went out (a timeout while a SLEEP
// runs, say) the error wraps ErrEditUnconfirmed.
func (c *Client) SetCell(cell, formula string) (*SetCellResponse, error) {
	payload, err := json.Marshal(map[string]string{"formula": formula})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	raw, err := c.doWithRetry(retryUnsent, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPut, c.BaseURL+"/api/v1/cells/"+url.PathEscape(cell), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.setCommonHeaders(req)
		return req, nil
	})
	var sent *errSent
	if errors.As(err, &sent) {
		return nil, fmt.Errorf("%w: %s: %w", ErrEditUnconfirmed, cell, err)
	}
	if err != nil {
		return nil, err
	}
	if raw.StatusCode != http.StatusOK && raw.StatusCode != http.StatusUnprocessableEntity {
		return nil, parseAPIError(raw.StatusCode, raw.Body, raw.RetryAfter)
	}

	var result SetCellResponse
	if err := json.Unmarshal(raw.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing set cell response: %w", err)
	}
	return &result, nil
}

// Cell reads one cell via GET /api/v1/cells/{cell}
func (c *Client) Cell(cell string) (*CellResponse, error) {
	raw, err := c.doWithRetry(retryReads, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/api/v1/cells/"+url.PathEscape(cell), nil)
		if err != nil {
			return nil, err
		}
		c.setCommonHeaders(req)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	if raw.StatusCode != http.StatusOK {
		return nil, parseAPIError(raw.StatusCode, raw.Body, raw.RetryAfter)
	}

	var result CellResponse
	if err := json.Unmarshal(raw.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing cell response: %w", err)
	}
	return &result, nil
}

// Viewport reads a rendered window via GET /api/v1/viewport
func (c *Client) Viewport(top, left, height, width int) (*ViewportResponse, error) {
	u, err := url.Parse(c.BaseURL + "/api/v1/viewport")
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	q := u.Query()
	q.Set("top", strconv.Itoa(top))
	q.Set("left", strconv.Itoa(left))
	q.Set("height", strconv.Itoa(height))
	q.Set("width", strconv.Itoa(width))
	u.RawQuery = q.Encode()

	raw, err := c.doWithRetry(retryReads, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		c.setCommonHeaders(req)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	if raw.StatusCode != http.StatusOK {
		return nil, parseAPIError(raw.StatusCode, raw.Body, raw.RetryAfter)
	}

	var result ViewportResponse
	if err := json.Unmarshal(raw.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing viewport response: %w", err)
	}
	return &result, nil
}
