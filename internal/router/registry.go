package router

import "github.com/gin-gonic/gin"

// APIPrefix is the group every module is mounted under.
const APIPrefix = "/api"

// Registry collects feature modules and mounts them under APIPrefix. The
// health route is always present and reports which user store is wired.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	store       string
	middlewares []gin.HandlerFunc
	modules     []Module
	mounted     bool
}

func NewRegistry(engine *gin.Engine, store string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix), store: store}
}

// Use adds middleware for the module routes. Health stays outside it so
// liveness checks never pass through auth or CORS rejections.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// Modules returns how many feature modules are queued, health excluded.
func (r *Registry) Modules() int { return len(r.modules) }

// RegisterAll mounts health and then every module. Later calls are no-ops,
// since gin panics on duplicate routes.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	healthModule(r.store).Register(r.API)
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
