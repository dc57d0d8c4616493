package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/proctorhub/proctoring-service/internal/identity"
	"github.com/proctorhub/proctoring-service/internal/services"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

// SetupRoutes wires the operational routes onto the router. The /ops group
// requires a verified identity when an identity provider is configured;
// health and readiness stay public for the orchestrator.
func SetupRoutes(router *gin.Engine, ops *OpsHandler, verifier *identity.Verifier, service services.ProctoringService, logger utils.Logger) {
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))
	router.Use(gin.Recovery())

	router.GET("/health", ops.Health)
	router.GET("/ready", ops.Ready)

	opsGroup := router.Group("/ops")
	if verifier.Configured() {
		opsGroup.Use(AuthMiddleware(verifier, service, logger))
	}
	{
		opsGroup.GET("/backend", ops.Backend)
		opsGroup.GET("/analytics/export", ops.ExportAnalytics)
	}
}
