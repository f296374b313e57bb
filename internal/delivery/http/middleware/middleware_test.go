package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-contact-relay/internal/delivery/http/response"
	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
}

func (s stubLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return s.decision, s.err
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func limitedRouter(limiter ratelimit.Limiter, failClosed bool) (*gin.Engine, *bool) {
	reached := false
	cfg := ContactRateLimitConfig(limiter)
	cfg.FailClosed = failClosed

	r := gin.New()
	r.Use(ErrorHandler(false))
	r.POST("/contact", RateLimitMiddleware(cfg), func(c *gin.Context) {
		reached = true
		c.JSON(http.StatusOK, response.Response{Success: true})
	})
	return r, &reached
}

func TestRateLimitMiddleware_Rejected(t *testing.T) {
	resetAt := time.Date(2024, 3, 5, 3, 45, 0, 0, time.UTC)
	r, reached := limitedRouter(stubLimiter{decision: ratelimit.Decision{
		Limit:      5,
		RetryAfter: 1500 * time.Millisecond,
		ResetAt:    resetAt,
	}}, false)

	w, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/contact", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, domain.MsgTooManyRequests, body.Error)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2024-03-05T03:45:00Z", w.Header().Get("X-RateLimit-Reset"))
	assert.False(t, *reached)
}

func TestRateLimitMiddleware_LimiterError(t *testing.T) {
	failing := stubLimiter{err: errors.New("redis down")}

	t.Run("fail open", func(t *testing.T) {
		r, reached := limitedRouter(failing, false)
		w, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/contact", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		assert.True(t, *reached)
	})

	t.Run("fail closed", func(t *testing.T) {
		r, reached := limitedRouter(failing, true)
		w, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/contact", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, domain.MsgInternalError, body.Error)
		assert.NotContains(t, w.Body.String(), "redis down")
		assert.False(t, *reached)
	})
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(false))
	r.NoRoute(NotFound)

	w, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, domain.MsgNotFound, body.Error)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/echo", BodyLimit(8), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		c.JSON(http.StatusOK, response.Response{Success: !errors.As(err, &tooLarge)})
	})

	_, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("12345678")))
	assert.True(t, body.Success)

	_, body = serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("123456789")))
	assert.False(t, body.Success)
}
