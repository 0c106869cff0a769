package onboarding

import (
	"go-onboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	onboarding := r.Group("/onboarding")
	onboarding.Use(middleware.ContextLogger(logger))
	{
		onboarding.POST("/run",
			middleware.RateLimitByIP(0.5, 2),
			handler.RunCycle,
		)

		onboarding.POST("/provision",
			middleware.RateLimitByIP(1, 5),
			handler.Provision,
		)

		onboarding.POST("/notify",
			middleware.RateLimitByIP(1, 5),
			handler.Notify,
		)
	}
}
