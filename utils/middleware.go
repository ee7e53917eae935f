package utils

import (
	"sync"

	"github.com/kataras/iris/v12"
	"golang.org/x/time/rate"
)

// RateLimit returns a per-client token bucket middleware, one limiter per
// client IP. The limiter map is not pruned.
func RateLimit(rps float64, burst int) iris.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(ctx iris.Context) {
		key := ClientIP(ctx)

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			ctx.StatusCode(iris.StatusTooManyRequests)
			ctx.JSON(iris.Map{"error": "Too Many Requests", "message": "Slow down and retry shortly"})
			return
		}
		ctx.Next()
	}
}
