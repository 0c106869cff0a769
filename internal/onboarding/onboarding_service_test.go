package onboarding_test

import (
	"context"
	"errors"
	"testing"

	"go-onboard/internal/employee"
	employeeMock "go-onboard/internal/employee/mock"
	"go-onboard/internal/identity"
	"go-onboard/internal/notify"
	"go-onboard/internal/onboarding"
	"go-onboard/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeProvisioner struct {
	calls     []employee.Employee
	outcomeFn func(emp employee.Employee) identity.ProvisionOutcome
}

func (f *fakeProvisioner) Provision(_ context.Context, emp employee.Employee) identity.ProvisionOutcome {
	f.calls = append(f.calls, emp)
	if f.outcomeFn != nil {
		return f.outcomeFn(emp)
	}
	return identity.ProvisionOutcome{EmployeeID: emp.ID, Status: identity.ProvisionCreated}
}

type fakeNotifier struct {
	calls     []employee.Employee
	outcomeFn func(emp employee.Employee) notify.NotifyOutcome
}

func (f *fakeNotifier) Notify(_ context.Context, emp employee.Employee) notify.NotifyOutcome {
	f.calls = append(f.calls, emp)
	if f.outcomeFn != nil {
		return f.outcomeFn(emp)
	}
	return notify.NotifyOutcome{EmployeeID: emp.ID, MessageID: "msg-" + emp.Email}
}

func pendingEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Department: "Eng", Role: "SWE", Status: employee.StatusPending},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Department: "Sales", Role: "AE", Status: employee.StatusPending},
	}
}

func TestOnboardingService_RunCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("each pending employee attempted exactly once for both steps", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees(), nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(nil)
		repo.EXPECT().MarkActive(ctx, uint(2)).Return(nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 2, report.Activated)
		assert.Len(t, prov.calls, 2)
		assert.Len(t, noti.calls, 2)
	})

	t.Run("cycle with no pending employees is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(nil, nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Processed)
		assert.Empty(t, prov.calls)
		assert.Empty(t, noti.calls)
	})

	t.Run("fetch failure aborts whole cycle with zero processed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(nil, errors.New("connection refused"))

		report, err := svc.RunCycle(ctx)

		assert.Error(t, err)
		assert.Equal(t, 0, report.Processed)
		assert.Empty(t, prov.calls)
		assert.Empty(t, noti.calls)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
		assert.Equal(t, 500, appErr.HTTPStatus)
	})

	t.Run("notification failure for first employee does not block second", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{
			outcomeFn: func(emp employee.Employee) notify.NotifyOutcome {
				if emp.ID == 1 {
					return notify.NotifyOutcome{EmployeeID: emp.ID, Err: errors.New("broker down")}
				}
				return notify.NotifyOutcome{EmployeeID: emp.ID, MessageID: "msg-2"}
			},
		}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees(), nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(nil)
		repo.EXPECT().MarkActive(ctx, uint(2)).Return(nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 2, report.Activated)
		assert.Len(t, prov.calls, 2)

		assert.Error(t, report.Outcomes[0].Notification.Err)
		assert.True(t, report.Outcomes[0].Activated)
		assert.NoError(t, report.Outcomes[1].Notification.Err)
		assert.Equal(t, "msg-2", report.Outcomes[1].Notification.MessageID)
	})

	t.Run("provisioning failure is absorbed, employee still notified and activated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{
			outcomeFn: func(emp employee.Employee) identity.ProvisionOutcome {
				return identity.ProvisionOutcome{
					EmployeeID: emp.ID,
					Status:     identity.ProvisionFailed,
					Err:        errors.New("quota exceeded"),
				}
			},
		}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees()[:1], nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Len(t, noti.calls, 1)
		assert.True(t, report.Outcomes[0].Activated)
		assert.Equal(t, identity.ProvisionFailed, report.Outcomes[0].Provisioning.Status)
	})

	t.Run("already existing identity account counts as success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{
			outcomeFn: func(emp employee.Employee) identity.ProvisionOutcome {
				return identity.ProvisionOutcome{EmployeeID: emp.ID, Status: identity.ProvisionAlreadyExists}
			},
		}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees()[:1], nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.True(t, report.Outcomes[0].Provisioning.Succeeded())
		assert.NoError(t, report.Outcomes[0].Provisioning.Err)
		assert.True(t, report.Outcomes[0].Activated)
	})

	t.Run("mark active failure leaves record pending for the next cycle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees()[:1], nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(errors.New("connection reset"))

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 0, report.Activated)
		assert.False(t, report.Outcomes[0].Activated)
		assert.Error(t, report.Outcomes[0].ActivationErr)
	})

	t.Run("unconfigured identity integration reports skipped but still activates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, identity.NewProvisioner(nil, ""), noti)

		repo.EXPECT().FindPending(ctx).Return(pendingEmployees()[:1], nil)
		repo.EXPECT().MarkActive(ctx, uint(1)).Return(nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, identity.ProvisionSkipped, report.Outcomes[0].Provisioning.Status)
		assert.True(t, report.Outcomes[0].Activated)
		assert.Len(t, noti.calls, 1)
	})

	t.Run("record missing email is rejected at the boundary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		prov := &fakeProvisioner{}
		noti := &fakeNotifier{}
		svc := onboarding.NewService(repo, prov, noti)

		repo.EXPECT().FindPending(ctx).Return([]employee.Employee{
			{ID: 9, Name: "No Email", Status: employee.StatusPending},
		}, nil)

		report, err := svc.RunCycle(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 0, report.Activated)
		assert.Empty(t, prov.calls)
		assert.Empty(t, noti.calls)
		assert.Equal(t, identity.ProvisionFailed, report.Outcomes[0].Provisioning.Status)
	})
}

type capturingWriter struct {
	messages []kafkago.Message
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

type scriptedDirectory struct {
	created []identity.AccountRequest
	grouped []string
}

func (d *scriptedDirectory) CreateAccount(_ context.Context, _ string, req identity.AccountRequest) error {
	d.created = append(d.created, req)
	return nil
}

func (d *scriptedDirectory) AddToGroup(_ context.Context, _ string, username, _ string) error {
	d.grouped = append(d.grouped, username)
	return nil
}

// End-to-end untuk satu record dengan provisioner dan notifier asli.
func TestOnboardingService_ProcessEmployee_FullPipeline(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)

	directory := &scriptedDirectory{}
	writer := &capturingWriter{}

	svc := onboarding.NewService(
		repo,
		identity.NewProvisioner(directory, "pool-1"),
		notify.NewNotifier(writer, ""),
	)

	ana := employee.Employee{
		ID:         7,
		Name:       "Ana Lopez",
		Email:      "ana@example.com",
		Department: "Eng",
		Role:       "SWE",
		Status:     employee.StatusPending,
	}

	repo.EXPECT().MarkActive(ctx, uint(7)).Return(nil)

	outcome := svc.ProcessEmployee(ctx, ana)

	assert.True(t, outcome.Activated)
	assert.Equal(t, identity.ProvisionCreated, outcome.Provisioning.Status)
	assert.NotEmpty(t, outcome.Notification.MessageID)

	if assert.Len(t, directory.created, 1) {
		assert.Equal(t, "ana@example.com", directory.created[0].Username)
		assert.Equal(t, "Ana Lopez", directory.created[0].Attributes["given_name"])
		assert.Equal(t, "Eng", directory.created[0].Attributes["department"])
	}
	assert.Equal(t, []string{"ana@example.com"}, directory.grouped)

	if assert.Len(t, writer.messages, 1) {
		body := string(writer.messages[0].Value)
		assert.Contains(t, body, "Ana Lopez")
		assert.Contains(t, body, "Eng")
		assert.Equal(t, "ana@example.com", string(writer.messages[0].Key))
	}
}
