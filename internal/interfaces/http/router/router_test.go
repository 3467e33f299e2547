package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/teamseason/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testRegistrar struct {
	path string
}

func (r *testRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(r.path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine,
		WithAPIVersion("v1"),
		WithHealthHandler(handler.NewHealthHandler(nil)),
	)
	r.Register(&testRegistrar{path: "/orders/:id"})
	r.Setup()

	t.Run("versioned api route", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/42", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("healthz outside api group", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route 404s", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v2/orders/42", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
