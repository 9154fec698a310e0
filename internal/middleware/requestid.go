package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"
)

// maxRequestIDLength bounds ids accepted from clients.
const maxRequestIDLength = 64

// RequestID tags each request with an id and echoes it in the X-Request-Id
// response header. A reasonable id sent by the client is kept; otherwise a
// fresh xid is generated. The id is stored under chi's RequestIDKey so
// chimiddleware.GetReqID keeps working.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(chimiddleware.RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = xid.New().String()
		}

		w.Header().Set(chimiddleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
