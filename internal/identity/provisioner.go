package identity

import (
	"context"
	"errors"
	"fmt"

	"go-onboard/internal/employee"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProvisionStatus string

const (
	ProvisionCreated       ProvisionStatus = "created"
	ProvisionAlreadyExists ProvisionStatus = "already_exists"
	ProvisionSkipped       ProvisionStatus = "skipped"
	ProvisionFailed        ProvisionStatus = "failed"
)

type ProvisionOutcome struct {
	EmployeeID uint
	Status     ProvisionStatus
	Err        error
}

func (o ProvisionOutcome) Succeeded() bool {
	return o.Status == ProvisionCreated || o.Status == ProvisionAlreadyExists
}

// Provisioner memastikan akun identity provider tersedia untuk satu karyawan.
// Semua kegagalan dikembalikan dalam outcome, tidak pernah dilempar ke atas.
type Provisioner interface {
	Provision(ctx context.Context, emp employee.Employee) ProvisionOutcome
}

type provisioner struct {
	client DirectoryClient
	poolID string
	logger *zap.Logger
}

// NewProvisioner membangun provisioner. poolID kosong menonaktifkan integrasi:
// semua pemanggilan dilaporkan skipped tanpa menyentuh jaringan.
func NewProvisioner(client DirectoryClient, poolID string, logger ...*zap.Logger) Provisioner {
	l := zap.L().Named("identity.provisioner")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.provisioner")
	}
	return &provisioner{
		client: client,
		poolID: poolID,
		logger: l,
	}
}

func (p *provisioner) Provision(ctx context.Context, emp employee.Employee) ProvisionOutcome {
	if p.poolID == "" || p.client == nil {
		p.logger.Info("identity provisioning disabled, skipping",
			zap.Uint("employee_id", emp.ID),
		)
		return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionSkipped}
	}

	if emp.Email == "" || emp.Name == "" {
		err := fmt.Errorf("employee %d is missing name or email", emp.ID)
		p.logger.Warn("provisioning rejected at boundary", zap.Error(err))
		return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionFailed, Err: err}
	}

	p.logger.Debug("provisioning identity account",
		zap.Uint("employee_id", emp.ID),
		zap.String("email", emp.Email),
	)

	err := p.client.CreateAccount(ctx, p.poolID, AccountRequest{
		Username: emp.Email,
		Attributes: map[string]string{
			"email":          emp.Email,
			"email_verified": "true",
			"given_name":     emp.Name,
			"department":     emp.Department,
		},
		TemporaryCredential: temporaryCredential(),
		DeliveryMedium:      DeliveryMediumEmail,
	})

	if errors.Is(err, ErrAccountExists) {
		p.logger.Warn("identity account already exists",
			zap.Uint("employee_id", emp.ID),
			zap.String("email", emp.Email),
		)
		return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionAlreadyExists}
	}
	if err != nil {
		p.logger.Error("create identity account failed",
			zap.Uint("employee_id", emp.ID),
			zap.String("email", emp.Email),
			zap.Error(err),
		)
		return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionFailed, Err: err}
	}

	if err := p.client.AddToGroup(ctx, p.poolID, emp.Email, "employees"); err != nil {
		p.logger.Error("add identity account to group failed",
			zap.Uint("employee_id", emp.ID),
			zap.String("email", emp.Email),
			zap.Error(err),
		)
		return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionFailed, Err: err}
	}

	p.logger.Info("identity account provisioned",
		zap.Uint("employee_id", emp.ID),
		zap.String("email", emp.Email),
		zap.String("department", emp.Department),
	)
	return ProvisionOutcome{EmployeeID: emp.ID, Status: ProvisionCreated}
}

func temporaryCredential() string {
	return "Tmp-" + uuid.NewString()
}
