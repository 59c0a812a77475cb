package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openebl/leafca/pkg/ca_server/model"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond the limiter's budget with 429 and a FAILURE envelope.
func RateLimit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeFailure(w, r, model.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
