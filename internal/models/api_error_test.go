package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAPIErrorFromBodyPrefersDetail(t *testing.T) {
	body := map[string]any{"detail": "Given token not valid", "message": "ignored"}

	err := APIErrorFromBody(body, 401, "fallback")

	assert.Equal(t, "Given token not valid", err.Message)
	assert.Equal(t, 401, err.Status)
	assert.Empty(t, cmp.Diff(body, err.Details))
}

func TestAPIErrorFromBodyMessageAndError(t *testing.T) {
	err := APIErrorFromBody(map[string]any{"message": "something broke"}, 500, "fallback")
	assert.Equal(t, "something broke", err.Message)

	err = APIErrorFromBody(map[string]any{"error": "nope"}, 400, "fallback")
	assert.Equal(t, "nope", err.Message)
}

func TestAPIErrorFromBodyAggregatesFieldErrors(t *testing.T) {
	body := map[string]any{
		"email":    []any{"This field is required."},
		"password": []any{"Too short.", "Too common."},
	}

	err := APIErrorFromBody(body, 400, "fallback")

	assert.Equal(t, "email: This field is required.; password: Too short., Too common.", err.Message)
}

func TestAPIErrorFromBodyFallback(t *testing.T) {
	err := APIErrorFromBody(map[string]any{}, 502, "HTTP error! status: 502")
	assert.Equal(t, "HTTP error! status: 502", err.Message)

	err = APIErrorFromBody(map[string]any{"count": float64(3)}, 400, "fallback")
	assert.Equal(t, "fallback", err.Message)
}
