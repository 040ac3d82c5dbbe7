package rest

import (
	"PinGateway/internal/controller/rest/handlers"
	"PinGateway/pkg/health"
	"PinGateway/pkg/logger"
	"PinGateway/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Router struct {
	charge         handlers.ChargeHandler
	healthRegistry *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/charges", r.charge.Purchase)
	engine.POST("/charges/authorize", r.charge.Authorize)
	engine.PUT("/charges/:token/capture", r.charge.Capture)
	engine.POST("/charges/:token/refunds", r.charge.Refund)
}

func NewRouter(charge handlers.ChargeHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		charge:         charge,
		healthRegistry: healthRegistry,
	}
}

// NewEngine returns a gin engine with correlation, logging, metrics and recovery middleware.
func NewEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.CorrelationMiddleware(),
		metrics.GinMiddleware(),
		logger.RequestLogger(),
		gin.Recovery(),
	)
	return engine
}
