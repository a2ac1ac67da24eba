package routes

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	RequestIDHeader = "X-Request-Id"
)

// requestID propagates the caller's X-Request-Id or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(p gin.LogFormatterParams) string {
			rid, _ := p.Keys[requestIDKey].(string)
			return fmt.Sprintf("rid=%s method=%s path=%s status=%d dur=%s ip=%s ua=%q\n",
				rid,
				p.Method,
				p.Path,
				p.StatusCode,
				p.Latency,
				p.ClientIP,
				p.Request.UserAgent(),
			)
		},
	})
}

// recovery turns a panic into the generic 500 body.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("rid=%s method=%s path=%s panic: %v", c.GetString(requestIDKey), c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	})
}
