package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods     = "GET,POST,PUT,DELETE,OPTIONS"
	corsHeaders     = "Authorization,Content-Type"
	corsExposed     = "ETag,X-Request-Id,Retry-After"
	preflightMaxAge = 10 * time.Minute
)

// CORSMiddleware enables browser clients from the configured origins.
// Credentials are always allowed since authentication rides on cookies, which
// also rules out a wildcard origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))

	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	maxAge := strconv.Itoa(int(preflightMaxAge.Seconds()))

	return func(ctx *gin.Context) {
		// responses differ per origin, caches must key on it
		ctx.Header("Vary", "Origin")

		origin := ctx.GetHeader("Origin")

		if _, ok := allowed[origin]; ok && origin != "" {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
			ctx.Header("Access-Control-Allow-Methods", corsMethods)
			ctx.Header("Access-Control-Allow-Headers", corsHeaders)
			ctx.Header("Access-Control-Expose-Headers", corsExposed)
			ctx.Header("Access-Control-Max-Age", maxAge)
		}

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
