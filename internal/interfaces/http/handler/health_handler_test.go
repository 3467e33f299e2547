package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error {
	return f.err
}

func newHealthRouter(h *HealthHandler) *gin.Engine {
	engine := gin.New()
	engine.GET("/healthz", h.Healthz)
	return engine
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy with database", func(t *testing.T) {
		engine := newHealthRouter(NewHealthHandler(&fakePinger{}))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("healthy without database", func(t *testing.T) {
		engine := newHealthRouter(NewHealthHandler(nil))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("degraded when database unreachable", func(t *testing.T) {
		engine := newHealthRouter(NewHealthHandler(&fakePinger{err: errors.New("connection refused")}))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})
}
