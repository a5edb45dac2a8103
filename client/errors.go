package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrEditUnconfirmed is returned by SetCell when the request may have reached
// the server but no answer arrived. The edit may or may not be committed;
// read the cell back to find out.
var ErrEditUnconfirmed = errors.New("edit sent but not confirmed")

// APIError is a typed error returned by API calls, with the HTTP status code.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string {
	if friendly := friendlyErrorMessage(e.StatusCode, e.Code, e.Message, e.RetryAfter); friendly != "" {
		return friendly
	}
	if e.Code != "" {
		return fmt.Sprintf("API error %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// friendlyErrorMessage maps server error codes to messages for the CLI.
func friendlyErrorMessage(statusCode int, code, message, retryAfter string) string {
	if statusCode == http.StatusTooManyRequests {
		if retryAfter != "" {
			return fmt.Sprintf("rate limited by API; retry after %s", retryAfter)
		}
		return "rate limited by API; retry in a moment"
	}

	switch code {
	case "UNAUTHORIZED":
		return "server rejected the API key; set GRIDCALC_API_KEY or pass --api-key"
	case "NOT_FOUND", "INVALID_ARG", "ADDRESS_PARSE_ERROR":
		// The server already words these for people, e.g. "cell Z9 is
		// outside the 3x3 grid".
		return message
	default:
		return ""
	}
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func parseAPIError(statusCode int, body []byte, retryAfter string) error {
	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       apiErr.Error.Code,
			Message:    apiErr.Error.Message,
			RetryAfter: retryAfter,
		}
	}
	return &APIError{StatusCode: statusCode, Message: string(body), RetryAfter: retryAfter}
}
