package providers

import (
	"ghstats/internal/structures"
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware lets browser pages on the configured origins read the API. Preflight
// requests are answered here and never reach next.
func CORSMiddleware(conf *structures.Config, next http.Handler) http.Handler {
	origins := conf.Cors.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         int(conf.Cors.MaxAge.Seconds()),
	}).Handler(next)
}
