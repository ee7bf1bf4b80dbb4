package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows browser calls from the configured origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
