//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lendloop/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// PerformRequest runs one request through the router acting as callerID;
// pass "" to leave the identity header off.
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, callerID string) *httptest.ResponseRecorder {
	t.Helper()

	buf := &bytes.Buffer{}
	if body != nil {
		require.NoError(t, json.NewEncoder(buf).Encode(body), "request body encoding failed")
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if callerID != "" {
		req.Header.Set(middleware.CallerIDHeader, callerID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
