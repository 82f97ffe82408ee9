package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegistry_HealthBypassesModuleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	reg := NewRegistry(engine, "postgres")
	reg.Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) })
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))
	assert.Equal(t, 1, reg.Modules())
	reg.RegisterAll()

	w := serve(engine, APIPrefix+"/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"postgres"`)

	assert.Equal(t, http.StatusUnauthorized, serve(engine, APIPrefix+"/ping").Code)
}

func TestRegistry_RegisterAllTwice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	reg := NewRegistry(engine, "memory")
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))

	reg.RegisterAll()
	assert.NotPanics(t, reg.RegisterAll)
	assert.Equal(t, "pong", serve(engine, APIPrefix+"/ping").Body.String())
}
