package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /health reports the process as healthy only while the store answers.
func (s *Server) health(c *gin.Context) {
	err := s.store.Ping(c.Request.Context())
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": now,
	})
}

// GET /ready never touches the store.
func (s *Server) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
