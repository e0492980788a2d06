package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	ctxutil "github.com/Payphone-Digital/shortlink/pkg/context"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextMiddleware seeds the request context with a request id, client
// metadata and a deadline. Everything downstream logs through this context.
func ContextMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientIP(ctx, c.ClientIP())
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, "http", c.FullPath())

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			logger.WarnWithContext(ctx, "Request exceeded its deadline").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Duration(timeout).
				Log()
		}
	}
}
