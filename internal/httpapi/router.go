// ABOUTME: Gin router and middleware for the reader HTTP API
// ABOUTME: Tags every request with an id and logs it through zap
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harper/muzakir/internal/logger"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RouterConfig carries the handlers and logger the router is built from
type RouterConfig struct {
	Handlers *Handlers
	Logger   *logger.Logger
}

// NewRouter builds the API router
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := logger.OrNop(cfg.Logger)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log))

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/chat", cfg.Handlers.Chat)
		api.POST("/search", cfg.Handlers.Search)
		api.POST("/dictionary", cfg.Handlers.Dictionary)
		api.GET("/books/:slug/chapters", cfg.Handlers.ListChapters)
		api.GET("/chapters/:id", cfg.Handlers.GetChapter)
	}

	return router
}

// RequestID reuses an incoming X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one debug line per request
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
