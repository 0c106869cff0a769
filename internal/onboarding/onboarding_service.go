package onboarding

import (
	"context"
	"fmt"

	"go-onboard/internal/employee"
	"go-onboard/internal/identity"
	"go-onboard/internal/notify"
	onboardingerrors "go-onboard/internal/onboarding/errors"
	"go-onboard/internal/shared/apperror"

	"go.uber.org/zap"
)

type Service interface {
	// RunCycle menjalankan satu siklus onboarding untuk semua karyawan pending.
	// Kegagalan fetch membatalkan seluruh siklus; kegagalan per-karyawan tidak.
	RunCycle(ctx context.Context) (CycleReport, error)
	// ProcessEmployee menjalankan pipeline untuk satu record: provision,
	// notify, lalu transisi status pending -> active.
	ProcessEmployee(ctx context.Context, emp employee.Employee) EmployeeOutcome
	Provision(ctx context.Context, emp employee.Employee) identity.ProvisionOutcome
	Notify(ctx context.Context, emp employee.Employee) notify.NotifyOutcome
}

type service struct {
	repo        employee.Repository
	provisioner identity.Provisioner
	notifier    notify.Notifier
	logger      *zap.Logger
}

func NewService(
	repo employee.Repository,
	provisioner identity.Provisioner,
	notifier notify.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	return &service{
		repo:        repo,
		provisioner: provisioner,
		notifier:    notifier,
		logger:      l,
	}
}

func (s *service) RunCycle(ctx context.Context) (CycleReport, error) {
	s.logger.Info("onboarding cycle started")

	pending, err := s.repo.FindPending(ctx)
	if err != nil {
		s.logger.Error("fetch pending employees failed", zap.Error(err))
		return CycleReport{}, apperror.Wrap(
			err,
			onboardingerrors.ErrFetchPendingFailed.Code,
			onboardingerrors.ErrFetchPendingFailed.Message,
			onboardingerrors.ErrFetchPendingFailed.HTTPStatus,
		)
	}

	s.logger.Info("pending employees fetched", zap.Int("count", len(pending)))

	report := CycleReport{
		Processed: len(pending),
		Outcomes:  make([]EmployeeOutcome, 0, len(pending)),
	}

	for _, emp := range pending {
		outcome := s.ProcessEmployee(ctx, emp)
		if outcome.Activated {
			report.Activated++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	s.logger.Info("onboarding cycle finished",
		zap.Int("processed", report.Processed),
		zap.Int("activated", report.Activated),
	)
	return report, nil
}

func (s *service) ProcessEmployee(ctx context.Context, emp employee.Employee) EmployeeOutcome {
	outcome := EmployeeOutcome{
		EmployeeID: emp.ID,
		Email:      emp.Email,
	}

	if err := validateRecord(emp); err != nil {
		s.logger.Warn("employee record rejected at pipeline boundary",
			zap.Uint("employee_id", emp.ID),
			zap.Error(err),
		)
		outcome.Provisioning = identity.ProvisionOutcome{
			EmployeeID: emp.ID,
			Status:     identity.ProvisionFailed,
			Err:        err,
		}
		outcome.Notification = notify.NotifyOutcome{EmployeeID: emp.ID, Err: err}
		return outcome
	}

	s.logger.Info("processing employee",
		zap.Uint("employee_id", emp.ID),
		zap.String("name", emp.Name),
		zap.String("email", emp.Email),
	)

	// Kedua side effect berjalan best-effort: kegagalan dicatat dalam outcome
	// dan tidak menghentikan langkah berikut maupun karyawan lain.
	outcome.Provisioning = s.provisioner.Provision(ctx, emp)
	outcome.Notification = s.notifier.Notify(ctx, emp)

	// Transisi status dimiliki orchestrator, bukan provisioner. Gagal di sini
	// membuat record tetap pending dan diproses ulang siklus berikutnya;
	// provisioning yang idempotent membuat pengulangan itu aman.
	if err := s.repo.MarkActive(ctx, emp.ID); err != nil {
		s.logger.Error("mark employee active failed",
			zap.Uint("employee_id", emp.ID),
			zap.Error(err),
		)
		outcome.ActivationErr = err
		return outcome
	}

	outcome.Activated = true
	s.logger.Info("employee onboarded",
		zap.Uint("employee_id", emp.ID),
		zap.String("provisioning", string(outcome.Provisioning.Status)),
		zap.Bool("notified", outcome.Notification.Succeeded()),
	)
	return outcome
}

func (s *service) Provision(ctx context.Context, emp employee.Employee) identity.ProvisionOutcome {
	return s.provisioner.Provision(ctx, emp)
}

func (s *service) Notify(ctx context.Context, emp employee.Employee) notify.NotifyOutcome {
	return s.notifier.Notify(ctx, emp)
}

func validateRecord(emp employee.Employee) error {
	if emp.Name == "" || emp.Email == "" {
		return fmt.Errorf("employee %d: name and email are required: %w",
			emp.ID, onboardingerrors.ErrInvalidEmployeePayload)
	}
	return nil
}
