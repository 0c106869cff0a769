package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-onboard/internal/employee"
	"go-onboard/internal/events"
	"go-onboard/internal/onboarding"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumeEmployeeCreated memproses event employee_created dan langsung
// menjalankan pipeline onboarding untuk record tersebut. Poll cycle tetap
// menjadi jaring pengaman bila event hilang atau pemrosesan gagal.
func ConsumeEmployeeCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	repo employee.Repository,
	onboardingService onboarding.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_created")
	log.Info("employee created consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee created consumer stopped")
				return
			}
			log.Error("fetch employee created message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		emp, err := repo.FindByID(ctx, event.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("employee from event no longer exists, skipping",
					zap.Uint("employee_id", event.EmployeeID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("load employee for event failed",
				zap.Uint("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		// Filter status bertindak sebagai claim: hanya record pending yang
		// diproses, jadi event duplikat atau balapan dengan poller aman.
		if emp.Status != employee.StatusPending {
			log.Debug("employee already processed, skipping",
				zap.Uint("employee_id", emp.ID),
				zap.String("status", string(emp.Status)),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		outcome := onboardingService.ProcessEmployee(ctx, *emp)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee created message failed", zap.Error(err))
			continue
		}

		log.Info("employee onboarded from event",
			zap.Uint("employee_id", emp.ID),
			zap.String("provisioning", string(outcome.Provisioning.Status)),
			zap.Bool("activated", outcome.Activated),
		)
	}
}
