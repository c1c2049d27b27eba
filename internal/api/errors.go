package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 * 1024

// APIError carries a non-2xx response back to the caller. Fields holds
// field-keyed messages when the server returned a structured validation
// error; callers map those back onto the corresponding inputs.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return fmt.Sprintf("%s (HTTP %d)", strings.Join(parts, "; "), e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d)", http.StatusText(e.StatusCode), e.StatusCode)
}

// decodeError builds an APIError from a non-2xx response. The backend
// answers either {"error": "..."} / {"detail": "..."} or a field-keyed
// object whose values are strings or arrays of strings.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	fields := map[string]string{}
	for key, raw := range payload {
		msg := firstMessage(raw)
		if msg == "" {
			continue
		}
		switch key {
		case "error", "detail", "non_field_errors":
			if apiErr.Message == "" {
				apiErr.Message = msg
			}
		default:
			fields[key] = msg
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}

func firstMessage(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				return s
			}
		}
	}
	return ""
}
