package models

import (
	"fmt"
	"sort"
	"strings"
)

// APIError is the single error type every failed backend call is normalized
// into: a human-readable message, the structured error body if one could be
// parsed and the HTTP status code if the failure came from a response.
type APIError struct {
	Message string
	Details map[string]any
	Status  int
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError wraps a plain message without any response context.
func NewAPIError(message string) *APIError {
	return &APIError{Message: message}
}

// APIErrorFromBody builds an APIError out of a parsed backend error body,
// preferring detail, then message, then error, then aggregating per-field
// validation messages into a single readable string. The fallback message is
// used when the body carries nothing usable.
func APIErrorFromBody(body map[string]any, status int, fallback string) *APIError {
	message := fallback
	if detail, ok := body["detail"].(string); ok && detail != "" {
		message = detail
	} else if msg, ok := body["message"].(string); ok && msg != "" {
		message = msg
	} else if errMsg, ok := body["error"].(string); ok && errMsg != "" {
		message = errMsg
	} else if len(body) > 0 {
		fieldErrors := []string{}
		fields := make([]string, 0, len(body))
		for field := range body {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			switch value := body[field].(type) {
			case string:
				fieldErrors = append(fieldErrors, fmt.Sprintf("%s: %s", field, value))
			case []any:
				parts := []string{}
				for _, item := range value {
					if s, ok := item.(string); ok {
						parts = append(parts, s)
					}
				}
				if len(parts) > 0 {
					fieldErrors = append(fieldErrors, fmt.Sprintf("%s: %s", field, strings.Join(parts, ", ")))
				}
			}
		}
		if len(fieldErrors) > 0 {
			message = strings.Join(fieldErrors, "; ")
		}
	}
	return &APIError{Message: message, Details: body, Status: status}
}
