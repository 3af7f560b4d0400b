package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(s.logger, s.metrics))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Origin", "Accept", RequestIDHeader},
		ExposeHeaders:             []string{RequestIDHeader},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.GET("/health", s.handleHealth)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/inventory", s.handleInventory)
		api.OPTIONS("/inventory", s.handlePreflight)
		api.GET("/stores", s.handleStores)
	}

	return router
}
