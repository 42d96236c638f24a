package providers

import (
	"ghstats/internal/structures"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newCORSHandler(conf *structures.Config) (http.Handler, *int) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats/{username}", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("{}"))
	})
	return CORSMiddleware(conf, mux), &calls
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler, calls := newCORSHandler(&structures.Config{Cors: structures.CorsConfig{MaxAge: time.Hour}})

	req := httptest.NewRequest(http.MethodOptions, "/stats/octocat", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, 0, *calls)
}

func TestCORSMiddleware_SimpleGet(t *testing.T) {
	handler, calls := newCORSHandler(&structures.Config{})

	req := httptest.NewRequest(http.MethodGet, "/stats/octocat", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, *calls)
}

func TestCORSMiddleware_RestrictedOrigins(t *testing.T) {
	handler, _ := newCORSHandler(&structures.Config{Cors: structures.CorsConfig{
		AllowedOrigins: []string{"https://allowed.example"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/stats/octocat", nil)
	req.Header.Set("Origin", "https://other.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/stats/octocat", nil)
	req.Header.Set("Origin", "https://allowed.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "https://allowed.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
