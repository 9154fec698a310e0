package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureReqID(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = chimiddleware.GetReqID(r.Context())
	})
}

func TestRequestID_Generates(t *testing.T) {
	var seen string
	rec := httptest.NewRecorder()
	RequestID(captureReqID(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	_, err := xid.FromString(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_KeepsClientID(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "trace-abc")
	rec := httptest.NewRecorder()
	RequestID(captureReqID(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc", seen)
	assert.Equal(t, "trace-abc", rec.Header().Get("X-Request-Id"))
}

func TestRequestID_RejectsOversizedClientID(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", maxRequestIDLength+1))
	RequestID(captureReqID(&seen)).ServeHTTP(httptest.NewRecorder(), req)

	_, err := xid.FromString(seen)
	assert.NoError(t, err)
}
