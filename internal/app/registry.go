package app

import (
	"database/sql"
	"net/http"

	"go-onboard/internal/employee"
	"go-onboard/internal/identity"
	"go-onboard/internal/messaging/kafka"
	"go-onboard/internal/middleware"
	"go-onboard/internal/notify"
	"go-onboard/internal/onboarding"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	provisioner identity.Provisioner,
	notifier notify.Notifier,
) {
	logger := zap.L()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, rdb)
	onboardingService := onboarding.NewService(employeeRepo, provisioner, notifier)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	onboardingHandler := onboarding.NewHandler(onboardingService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, logger)
		onboarding.RegisterRoutes(api, onboardingHandler, logger)
	}
}
