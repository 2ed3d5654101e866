package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestFormFieldKeyExtractor(t *testing.T) {
	t.Run("extracts from GET params", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)

		extractor := httpx.FormFieldKeyExtractor("username")
		require.Equal(t, "alice", extractor(req))
	})

	t.Run("extracts from POST form", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "bob")

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		extractor := httpx.FormFieldKeyExtractor("username")
		require.Equal(t, "bob", extractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows requests under the limit", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
		handler := httpx.RateLimitByIP(cfg)(okHandler)

		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1000"
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("blocks requests over the limit with Retry-After", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		handler := httpx.RateLimitByIP(cfg)(okHandler)

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "10.0.0.2:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		require.Equal(t, http.StatusOK, rec.Code)

		second := httptest.NewRequest(http.MethodGet, "/", nil)
		second.RemoteAddr = "10.0.0.2:1000"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		handler := httpx.RateLimitByIP(cfg)(okHandler)

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "10.0.0.3:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		require.Equal(t, http.StatusOK, rec.Code)

		other := httptest.NewRequest(http.MethodGet, "/", nil)
		other.RemoteAddr = "10.0.0.4:1000"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
