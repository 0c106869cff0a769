package app

import (
	"os"

	"go-onboard/internal/employee"
	"go-onboard/internal/identity"
	"go-onboard/internal/notify"
	"go-onboard/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := gormDB.AutoMigrate(&employee.Employee{}); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb := connectRedisOptional(logger)

	kafkaWriter, err := connection.ConnectKafkaWithRetry(os.Getenv("KAFKA_BROKER"), 5)
	if err != nil {
		return err
	}
	logger.Info("kafka connection established")

	provisioner := buildProvisioner(logger)
	notifier := buildWelcomeNotifier(kafkaWriter)

	// Register Modules & Routes
	registerModules(router, sqlDB, gormDB, rdb, provisioner, notifier)

	return nil
}

// connectRedisOptional: cache bersifat opsional, API tetap jalan tanpa Redis.
func connectRedisOptional(logger *zap.Logger) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Warn("REDIS_ADDR not set, employee options cache disabled")
		return nil
	}

	rdb, err := connection.ConnectRedisWithRetry(addr, 5)
	if err != nil {
		logger.Warn("redis unavailable, employee options cache disabled", zap.Error(err))
		return nil
	}
	logger.Info("redis connection established")
	return rdb
}

// buildProvisioner membaca konfigurasi identity provider. Pool ID kosong
// berarti integrasi dimatikan dan provisioning dilaporkan skipped.
func buildProvisioner(logger *zap.Logger) identity.Provisioner {
	poolID := os.Getenv("IDENTITY_POOL_ID")
	if poolID == "" {
		logger.Warn("IDENTITY_POOL_ID not set, identity provisioning disabled")
		return identity.NewProvisioner(nil, "")
	}

	client := identity.NewDirectoryClient(os.Getenv("IDENTITY_BASE_URL"))
	return identity.NewProvisioner(client, poolID)
}

func buildWelcomeNotifier(writer *kafkago.Writer) notify.Notifier {
	return notify.NewNotifier(writer, os.Getenv("WELCOME_TOPIC"))
}
