package api

import (
	"time"

	"freight-route-service/internal/platform/obs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// requestID reuses the caller's X-Request-ID or mints one, and puts it on the
// request context so service timings can be correlated with the access log.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs end-to-end request duration and response size.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		log.Info().
			Str("req_id", obs.RequestID(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.RequestURI()).
			Int("status", c.Writer.Status()).
			Int("bytes", size).
			Int64("dur_ms", time.Since(start).Milliseconds()).
			Msg("request")
	}
}
