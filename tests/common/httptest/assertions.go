//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccessResponse checks the status code and, when target is non-nil,
// decodes the body into it.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, target any) {
	t.Helper()

	require.Equal(t, wantStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	if target != nil && wantStatus >= 200 && wantStatus < 300 {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "response body is not the expected JSON: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status code and the error envelope; when
// wantMsg is non-empty the envelope message must contain it.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantMsg string) {
	t.Helper()

	assert.Equal(t, wantStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &envelope)
	assert.NoError(t, err, "error body is not the expected envelope: %s", w.Body.String())

	if wantMsg != "" {
		assert.Contains(t, envelope.Error.Message, wantMsg)
	}
}
