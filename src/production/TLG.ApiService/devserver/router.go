package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/handlers"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// Routes are the handlers mounted by the development server
type Routes struct {
	Auth        handlers.LambdaHandler
	Devices     handlers.LambdaHandler
	Sensors     handlers.LambdaHandler
	Temperature handlers.LambdaHandler
	Health      func(ctx context.Context) map[string]interface{}
}

// NewRouter mounts every Lambda function on the path API Gateway routes to it
func NewRouter(routes Routes, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	router.Any("/auth", Adapt(routes.Auth, log))
	router.Any("/devices", Adapt(routes.Devices, log))
	router.Any("/sensors", Adapt(routes.Sensors, log))
	router.Any("/temperature", Adapt(routes.Temperature, log))

	router.GET("/health", func(c *gin.Context) {
		status := routes.Health(c.Request.Context())
		code := http.StatusOK
		if status["status"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
