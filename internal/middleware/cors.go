package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin; seats are authorized by token, not by cookie.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
	}
	return cors.New(options).Handler
}
