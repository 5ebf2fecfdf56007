// Package http wires the operational HTTP API: a health probe plus read-only
// access to admission records.
package http

import (
	"github.com/gin-gonic/gin"

	"tollgate/internal/interfaces/http/handlers"
	"tollgate/internal/interfaces/http/middleware"
	"tollgate/internal/shared/config"
	"tollgate/internal/shared/logger"
)

type Router struct {
	engine           *gin.Engine
	admissionHandler *handlers.AdmissionHandler
}

func NewRouter(reader handlers.AdmissionReader, cfg *config.ServerConfig, log logger.Interface) *Router {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	router := &Router{
		engine:           engine,
		admissionHandler: handlers.NewAdmissionHandler(reader),
	}
	router.registerRoutes()

	return router
}

func (r *Router) registerRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	{
		api.GET("/admissions/:user_id", r.admissionHandler.GetAdmission)
	}
}

// Engine exposes the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server on the given address.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
