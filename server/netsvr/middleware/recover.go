package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// Recover 兜住 handler panic，回 500 而不是砍掉整個 server。
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}
