// Package middleware provides the HTTP middleware shared by every route of
// the Pocket Guide API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// SessionHeader carries the client view id used to supersede stale asset
// probes. Browsers must be allowed to send it cross-origin.
const SessionHeader = "X-Session-ID"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", SessionHeader},
		MaxAge:         600,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
