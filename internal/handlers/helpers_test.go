package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testJWT = services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	pair, err := testJWT.GenerateTokenPair(userID, "tester")
	require.NoError(t, err)
	return pair.AccessToken
}

// do sends a request, authenticated as userID unless it is uuid.Nil.
func do(t *testing.T, app http.Handler, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	var req *http.Request
	if reader != nil {
		req = httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func strPtr(s string) *string { return &s }
