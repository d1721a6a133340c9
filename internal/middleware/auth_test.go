package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]struct{}{"secret-key": {}}

	tests := []struct {
		name          string
		keys          map[string]struct{}
		header        string
		wantStatus    int
		wantErrorCode string
	}{
		{"empty key set disables auth", map[string]struct{}{}, "", http.StatusOK, ""},
		{"valid key passes", keys, "secret-key", http.StatusOK, ""},
		{"missing key rejected", keys, "", http.StatusUnauthorized, "MISSING_API_KEY"},
		{"unknown key rejected", keys, "wrong-key", http.StatusUnauthorized, "INVALID_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyAuth(tt.keys, testLogger())(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErrorCode != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErrorCode, body["error_code"])
			}
		})
	}
}
