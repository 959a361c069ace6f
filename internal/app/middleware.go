package app

import (
	"net/http"

	"github.com/weedz/secrets/internal/utility"
)

// ContentLengthValidator validates Content-Length header for requests with bodies.
// It rejects requests without Content-Length or with excessive Content-Length.
func ContentLengthValidator(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only validate methods that typically have request bodies
			if r.Method == http.MethodPost || r.Method == http.MethodPut ||
				r.Method == http.MethodPatch {
				// r.ContentLength is -1 if not specified or chunked encoding
				if r.ContentLength < 0 {
					utility.HttpError(w, http.StatusLengthRequired,
						"Content-Length header is required")
					return
				}
				if r.ContentLength > maxSize {
					utility.HttpError(w, http.StatusRequestEntityTooLarge,
						"Content-Length exceeds maximum allowed size")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersConfig holds configuration for security headers middleware.
type SecurityHeadersConfig struct {
	RequireHTTPS bool
}

// SecurityHeaders adds security-related HTTP headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// HTTPS enforcement with HSTS
			// Skip redirect for /health endpoint to allow internal health checks
			if cfg.RequireHTTPS && r.URL.Path != "/health" {
				isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
				if !isHTTPS {
					target := "https://" + r.Host + r.URL.RequestURI()
					http.Redirect(w, r, target, http.StatusMovedPermanently)
					return
				}
				// HSTS: instruct browsers to only use HTTPS for 1 year
				w.Header().Set("Strict-Transport-Security",
					"max-age=31536000; includeSubDomains")
			}

			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")
			// Prevent clickjacking (also enforced by CSP frame-ancestors)
			w.Header().Set("X-Frame-Options", "DENY")
			// Control referrer information; reveal URLs carry the token
			w.Header().Set("Referrer-Policy", "no-referrer")
			csp := "default-src 'self'; script-src 'self'; " +
				"style-src 'self'; img-src 'self' data:; connect-src 'self'; " +
				"frame-ancestors 'none'; base-uri 'self'; form-action 'self'"
			w.Header().Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}
