package middleware

import (
	"net/http"

	"github.com/fourier-ai/lmdrag/internal/api"
)

// MaxBodyBytes limits request body size. Document uploads are the
// largest bodies this API sees, so the router sets the limit with
// whole PDFs in mind; declared oversize requests get a 413 up front,
// lying ones are cut off mid-read by MaxBytesReader.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit && r.ContentLength != -1 {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
