package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxDumpBody caps how much of a request body is logged.
const maxDumpBody = 4 << 10

// RequestDumpMiddleware logs method, URL, params and body of every request
// at debug level. The Authorization header is never logged.
func RequestDumpMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		headers := c.Request.Header.Clone()
		headers.Del("Authorization")

		body := bodyBytes
		if len(body) > maxDumpBody {
			body = body[:maxDumpBody]
		}

		log.Debug("request dump",
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.String()),
			zap.Any("headers", headers),
			zap.Any("params", c.Params),
			zap.ByteString("body", body),
		)

		c.Next()
	}
}
