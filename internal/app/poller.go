package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-onboard/internal/employee"
	"go-onboard/internal/messaging/kafka"
	"go-onboard/internal/messaging/kafka/producer"
	"go-onboard/internal/onboarding"
	"go-onboard/internal/shared/connection"

	"go.uber.org/zap"
)

// RunPoller menjalankan trigger terjadwal: setiap interval, satu siklus
// onboarding penuh untuk semua karyawan pending. Satu proses juga membawa
// outbox worker supaya event employee_created ikut terpublikasi.
func RunPoller() error {
	logger := zap.L().Named("app.poller")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	provisioner := buildProvisioner(logger)
	notifier := buildWelcomeNotifier(kafkaWriter)
	onboardingService := onboarding.NewService(employeeRepo, provisioner, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runOnboardingCycles(ctx, onboardingService, pollInterval(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("poller shutting down")
	cancel()

	return nil
}

func runOnboardingCycles(
	ctx context.Context,
	svc onboarding.Service,
	interval time.Duration,
	logger *zap.Logger,
) {
	log := logger.Named("onboarding.cycles")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("onboarding poller started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("onboarding poller stopped")
			return
		case <-ticker.C:
			report, err := svc.RunCycle(ctx)
			if err != nil {
				// Siklus berikutnya mencoba lagi; record pending tidak hilang.
				log.Error("onboarding cycle failed", zap.Error(err))
				continue
			}
			log.Info("onboarding cycle done",
				zap.Int("processed", report.Processed),
				zap.Int("activated", report.Activated),
			)
		}
	}
}

func pollInterval() time.Duration {
	raw := os.Getenv("POLL_INTERVAL")
	if raw == "" {
		return time.Minute
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}
