package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx provider response
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider: HTTP %d", e.StatusCode)
}

// AsAPIError reports whether err carries a provider HTTP status
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
	ErrorDescription string `json:"error_description"`
	Title            string `json:"title"`
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(raw)}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	switch {
	case len(body.Errors) > 0:
		parts := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			parts = append(parts, e.Title+": "+e.Detail)
		}
		apiErr.Message = strings.Join(parts, " | ")
	case body.ErrorDescription != "":
		apiErr.Message = body.ErrorDescription
	case body.Title != "":
		apiErr.Message = body.Title
	}
	return apiErr
}
