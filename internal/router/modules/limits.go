package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-auth/internal/container"
	"github.com/oksasatya/go-ddd-auth/internal/interface/middleware"
)

// limiterStore keeps a missing redis client a nil interface so RateLimit
// degrades to a pass-through.
func limiterStore() redis.Cmdable {
	if rdb := container.GetRedis(); rdb != nil {
		return rdb
	}
	return nil
}

// limit builds a per-minute limiter. Private addresses are exempt outside
// production so local tooling is never throttled.
func limit(max int, key middleware.KeyFunc, allow ...middleware.AllowFunc) gin.HandlerFunc {
	if cfg := container.GetConfig(); cfg != nil && !cfg.IsProduction() {
		allow = append(allow, middleware.AllowPrivateIP())
	}
	return middleware.RateLimit(limiterStore(), max, time.Minute, key, middleware.AllowAny(allow...))
}
